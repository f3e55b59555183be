//go:build go1.18
// +build go1.18

package vcard

import (
	"errors"
	"strings"
	"testing"
)

// FuzzParse checks the error policy and that every parsed card survives a
// render and re-parse.
// Run with: go test -fuzz=FuzzParse -fuzztime=30s ./pkg/vcard
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"BEGIN:VCARD\nVERSION:4.0\nFN:The Smiths\nKIND:group\nTEL;TYPE=HOME,VOICE:123-555-0100\nEND:VCARD",
		"BEGIN:VCARD\nVERSION:3.0\nEND:VCARD",
		"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Jo\r\n hn\r\nNOTE:a\\,b\\nc\r\nEND:VCARD\r\n",
		"BEGIN:VCARD\nVERSION:2.1\nPHOTO;ENCODING=BASE64;JPEG:/9j/\nEND:VCARD",
		"BEGIN:VCARD\nBEGIN:VCARD\nEND:VCARD\nEND:VCARD",
		"BEGIN:VCARD\nBEGIN;X=1:VCARD\nEND:VCARD",
		"END:VCARD\nFN:x",
		"BEGIN:VCARD\nADR:;;a\\;b;c\nitem1.X-A:1\nEND:VCARD",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		cards, err := Parse(input)
		if err != nil {
			t.Fatalf("lenient Parse() failed: %v", err)
		}

		_, err = ParseWithOptions(input, StrictReaderOptions())
		for _, e := range unjoin(err) {
			if !errors.Is(e, ErrMalformed) && !errors.Is(e, ErrMissingRequiredField) {
				t.Errorf("strict error %v has no category", e)
			}
			if errors.Is(e, ErrMalformed) && errors.Is(e, ErrMissingRequiredField) {
				t.Errorf("strict error %v has two categories", e)
			}
		}

		opts := DefaultWriterOptions()
		opts.TargetVersion = V40
		text, err := RenderWithOptions(opts, cards...)
		if err != nil {
			t.Fatal(err)
		}
		again, err := Parse(text)
		if err != nil {
			t.Fatalf("re-parse failed: %v", err)
		}
		if len(again) != len(cards) {
			t.Errorf("re-parse returned %d cards, want %d\n%s", len(again), len(cards), strings.ReplaceAll(text, "\r\n", "\n"))
		}
	})
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
