// Package vcard parses and writes vCard contact files (versions 2.1, 3.0 and 4.0).
//
// Parsing runs in three stages: folded physical lines are joined into
// logical lines, each logical line is parsed into a name, parameters and a
// value, and an assembler collects properties between BEGIN:VCARD and
// END:VCARD into immutable *Card values. Writing is the inverse: a Writer
// emits the properties of a card in a fixed order, escapes values and folds
// long lines.
//
// # Strict and lenient parsing
//
// By default parsing is lenient: malformed lines are skipped, and records
// missing required fields are still returned. With ReaderOptions.Strict set,
// a malformed line or a record without VERSION or FN fails that record. The
// failure is reported and parsing continues with the next record unless
// ReaderOptions.FailFast is also set.
//
//	cards, err := vcard.ParseWithOptions(input, vcard.StrictReaderOptions())
//	if errors.Is(err, vcard.ErrMissingRequiredField) {
//	    // well-formed but incomplete
//	}
//	// cards holds every record that passed
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple
// goroutines. Each call creates its own parser state, and Card values are
// immutable. A Scanner, Encoder or Builder must not be shared.
//
// # Parsing APIs
//
//   - Parse(string) and ParseReader(io.Reader) return every card at once.
//   - NewScanner(io.Reader, ReaderOptions) returns cards one at a time.
//   - ParseFile, OpenFile and ScanFile read files, decompressing gzip, zstd
//     and lz4 transparently.
//
// # Example usage with Parse:
//
//	cards, err := vcard.Parse("BEGIN:VCARD\r\nVERSION:4.0\r\nFN:John Doe\r\nEND:VCARD")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(cards[0].FormattedName())
//
// # Example usage with Render:
//
//	card, _ := vcard.NewBuilder().Version(vcard.V40).FormattedName("John Doe").Build()
//	text := vcard.Render(card)
package vcard

import (
	"errors"
	"io"
	"os"

	"github.com/shapestone/shape-vcard/internal/fileio"
	"github.com/shapestone/shape-vcard/internal/folding"
)

// Parse parses every card in input with the default lenient options.
func Parse(input string) ([]*Card, error) {
	return ParseWithOptions(input, DefaultReaderOptions())
}

// ParseWithOptions parses every card in input.
//
// The returned slice holds every card that was assembled successfully. The
// error, when not nil, joins one *ParseError per failed record, or holds
// only the first one when opts.FailFast is set.
func ParseWithOptions(input string, opts ReaderOptions) ([]*Card, error) {
	return collect(newAssembler(folding.NewStringReader(input), opts), opts)
}

// ParseReader parses every card read from r with the default lenient options.
// The input is consumed incrementally.
func ParseReader(r io.Reader) ([]*Card, error) {
	return ParseReaderWithOptions(r, DefaultReaderOptions())
}

// ParseReaderWithOptions parses every card read from r.
// A read error ends parsing and is returned together with the cards so far.
func ParseReaderWithOptions(r io.Reader, opts ReaderOptions) ([]*Card, error) {
	return collect(newAssembler(folding.NewReader(r), opts), opts)
}

// ParseFile parses every card in the file at path. Compressed files are
// decompressed transparently.
func ParseFile(path string, opts ReaderOptions) ([]*Card, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseReaderWithOptions(f, opts)
}

func collect(a *assembler, opts ReaderOptions) ([]*Card, error) {
	cards := make([]*Card, 0, 4)
	var errs []error
	for {
		card, err := a.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, err)
			if opts.FailFast || !isRecordError(err) {
				break
			}
			continue
		}
		cards = append(cards, card)
	}
	return cards, errors.Join(errs...)
}

// isRecordError reports whether err only affects one record.
func isRecordError(err error) bool {
	var perr *ParseError
	return errors.As(err, &perr)
}

// Validate checks input in strict mode and returns every failure.
// It returns nil when every record is complete and well-formed.
//
//	if err := vcard.Validate(input); err != nil {
//	    fmt.Println("Invalid vCard:", err)
//	}
func Validate(input string) error {
	_, err := ParseWithOptions(input, StrictReaderOptions())
	return err
}

// ValidateReader checks the input from r in strict mode.
func ValidateReader(r io.Reader) error {
	_, err := ParseReaderWithOptions(r, StrictReaderOptions())
	return err
}

// Format returns the format identifier for this parser.
func Format() string {
	return "VCARD"
}

// WriteFile writes cards to path. The file is compressed when its extension
// is .gz, .zst or .lz4.
func WriteFile(path string, cards []*Card, opts WriterOptions) (err error) {
	if err := opts.Validate(); err != nil {
		return err
	}
	f, err := fileio.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	enc, err := NewEncoder(f, opts)
	if err != nil {
		return err
	}
	for _, c := range cards {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}
