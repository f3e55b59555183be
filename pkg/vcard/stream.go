package vcard

import (
	"errors"
	"io"
	"iter"

	"github.com/shapestone/shape-vcard/internal/fileio"
	"github.com/shapestone/shape-vcard/internal/folding"
)

// Scanner provides a streaming interface for reading cards one at a time.
// Input is read only as far as needed to complete the next card, so memory
// use is bounded by the largest card rather than the whole input.
//
// Example usage:
//
//	file, _ := os.Open("contacts.vcf")
//	defer file.Close()
//
//	scanner := vcard.NewScanner(file, vcard.DefaultReaderOptions())
//	for scanner.Scan() {
//	    card := scanner.Card()
//	    fmt.Println(card.FormattedName())
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	asm    *assembler
	opts   ReaderOptions
	closer io.Closer
	card   *Card
	errs   []error
	done   bool
}

// NewScanner creates a Scanner that reads cards from r.
func NewScanner(r io.Reader, opts ReaderOptions) *Scanner {
	return &Scanner{
		asm:  newAssembler(folding.NewReader(r), opts),
		opts: opts,
	}
}

// OpenFile opens the file at path for scanning. Compressed files are
// decompressed transparently. The caller must Close the Scanner.
func OpenFile(path string, opts ReaderOptions) (*Scanner, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	s := NewScanner(f, opts)
	s.closer = f
	return s, nil
}

// Next returns the next card. A *ParseError reports one failed record in
// strict mode; Next may be called again to continue with the following
// record. Next returns io.EOF when the input is exhausted.
func (s *Scanner) Next() (*Card, error) {
	if s.done {
		return nil, io.EOF
	}
	card, err := s.asm.next()
	if errors.Is(err, io.EOF) {
		s.done = true
	}
	return card, err
}

// Scan advances the scanner to the next card. It returns false when there
// are no more cards, or at the first failure when FailFast is set. Failed
// records are collected and reported by Err.
func (s *Scanner) Scan() bool {
	for {
		card, err := s.Next()
		switch {
		case err == nil:
			s.card = card
			return true
		case errors.Is(err, io.EOF):
			s.card = nil
			return false
		default:
			s.errs = append(s.errs, err)
			if s.opts.FailFast || !isRecordError(err) {
				s.done = true
				s.card = nil
				return false
			}
		}
	}
}

// Card returns the card read by the last successful call to Scan.
func (s *Scanner) Card() *Card {
	return s.card
}

// Err returns the failures collected by Scan, joined. It returns nil if
// every record was read successfully.
func (s *Scanner) Err() error {
	return errors.Join(s.errs...)
}

// All returns an iterator over the remaining cards and failures. Breaking
// out of the loop leaves the Scanner usable.
//
//	for card, err := range scanner.All() {
//	    if err != nil {
//	        log.Println(err)
//	        continue
//	    }
//	    fmt.Println(card.FormattedName())
//	}
func (s *Scanner) All() iter.Seq2[*Card, error] {
	return func(yield func(*Card, error) bool) {
		for {
			card, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(card, err) {
				return
			}
			if err != nil && (s.opts.FailFast || !isRecordError(err)) {
				s.done = true
				return
			}
		}
	}
}

// Close releases the file opened by OpenFile. It is a no-op for scanners
// created with NewScanner.
func (s *Scanner) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

// ScanFile returns an iterator over the cards in the file at path. The file
// is closed when the iteration ends, including when the loop breaks early.
//
//	for card, err := range vcard.ScanFile("contacts.vcf.gz", opts) {
//	    ...
//	}
func ScanFile(path string, opts ReaderOptions) iter.Seq2[*Card, error] {
	return func(yield func(*Card, error) bool) {
		s, err := OpenFile(path, opts)
		if err != nil {
			yield(nil, err)
			return
		}
		defer s.Close()

		for card, err := range s.All() {
			if !yield(card, err) {
				return
			}
		}
	}
}
