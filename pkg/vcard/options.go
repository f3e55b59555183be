package vcard

import (
	"strconv"
)

// Default writer settings.
const (
	// DefaultMaxLineLength is the fold width used when none is configured.
	DefaultMaxLineLength = 75
	// DefaultTargetVersion is the version written when none is configured.
	DefaultTargetVersion = V30
)

// ReaderOptions configures parsing.
type ReaderOptions struct {
	// Strict reports malformed lines and missing required fields as errors
	// and drops the affected record. When false, problems are skipped and
	// every record that reaches END:VCARD is returned.
	// Default: false
	Strict bool

	// FailFast stops at the first failed record instead of reporting it and
	// continuing with the next one. Only meaningful with Strict.
	// Default: false
	FailFast bool

	// WarningCallback is invoked for every problem lenient mode recovers from.
	// If nil, warnings are only logged at debug level.
	WarningCallback WarningHandler
}

// DefaultReaderOptions returns the lenient reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Strict:          false,
		FailFast:        false,
		WarningCallback: nil,
	}
}

// StrictReaderOptions returns a strict configuration that reports every failed record.
func StrictReaderOptions() ReaderOptions {
	opts := DefaultReaderOptions()
	opts.Strict = true
	return opts
}

// WriterOptions configures writing.
type WriterOptions struct {
	// TargetVersion selects the emitted VERSION and the version-specific rules.
	// Default: V30
	TargetVersion Version

	// FoldLines splits lines longer than MaxLineLength.
	// Default: true
	FoldLines bool

	// MaxLineLength is the longest physical line, in characters, when folding.
	// Must be at least 2.
	// Default: 75
	MaxLineLength int
}

// DefaultWriterOptions returns the default writer configuration.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		TargetVersion: DefaultTargetVersion,
		FoldLines:     true,
		MaxLineLength: DefaultMaxLineLength,
	}
}

// Validate checks if the writer options are valid.
func (o WriterOptions) Validate() error {
	if !o.TargetVersion.IsKnown() {
		return &OptionsError{Field: "TargetVersion", Message: "unsupported version " + o.TargetVersion.String()}
	}
	if o.FoldLines && o.MaxLineLength < 2 {
		return &OptionsError{Field: "MaxLineLength", Message: "must be at least 2, got " + strconv.Itoa(o.MaxLineLength)}
	}
	return nil
}
