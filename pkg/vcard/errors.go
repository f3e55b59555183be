package vcard

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-vcard/internal/parser"
)

// Error categories. Every error returned for bad input wraps exactly one of
// them, so callers can branch with errors.Is.
var (
	// ErrMalformed indicates syntactically broken input.
	ErrMalformed = parser.ErrMalformed

	// ErrMissingRequiredField indicates a well-formed record that lacks
	// VERSION or a non-blank FN. Only reported in strict mode.
	ErrMissingRequiredField = errors.New("missing required field")
)

// Malformed-input details.
var (
	// ErrMissingSeparator indicates a property line without ':'.
	ErrMissingSeparator = parser.ErrMissingSeparator

	// ErrBadParameter indicates a parameter that cannot be parsed.
	ErrBadParameter = parser.ErrBadParameter

	// ErrUnterminatedRecord indicates input that ended inside a record.
	ErrUnterminatedRecord = fmt.Errorf("%w: missing END:VCARD", ErrMalformed)

	// ErrNestedBegin indicates BEGIN:VCARD inside an open record.
	ErrNestedBegin = fmt.Errorf("%w: BEGIN:VCARD inside an open record", ErrMalformed)

	// ErrOutsideRecord indicates a property or END:VCARD with no open record.
	ErrOutsideRecord = fmt.Errorf("%w: line outside BEGIN:VCARD/END:VCARD", ErrMalformed)

	// ErrUnsupportedVersion indicates a VERSION other than 2.1, 3.0 or 4.0.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrMalformed)

	// ErrInvalidPhoto indicates an embedded photo that is not valid base64.
	ErrInvalidPhoto = fmt.Errorf("%w: invalid base64 photo", ErrMalformed)
)

// ParseError represents a failed record with position information.
type ParseError struct {
	// StartLine is the line of the BEGIN:VCARD that opened the record (1-indexed).
	// It equals Line for problems found outside a record.
	StartLine int
	// Line is the line where the problem was found (1-indexed).
	Line int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("vcard: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("vcard: line %d (record started line %d): %v", e.Line, e.StartLine, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// WarningHandler receives problems that lenient mode recovers from.
type WarningHandler func(line int, message string)

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "vcard: invalid " + e.Field + ": " + e.Message
}
