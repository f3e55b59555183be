// Package folding reconstructs logical vCard lines from physical lines and
// splits long logical lines back into folded physical lines.
//
// A physical line that starts with a single space or tab continues the
// previous one. The indicator character is dropped and the remainder is
// appended without any separator.
package folding

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// Line is one logical line.
type Line struct {
	// Text is the unfolded content without the line terminator.
	Text string
	// Number is the 1-based number of the first physical line.
	Number int
}

// Reader pulls logical lines from a character stream.
// It reads ahead by at most one character.
type Reader struct {
	stream tokenizer.Stream
	src    *alignedReader
	row    int
	sb     strings.Builder
}

// NewReader creates a Reader over r. Input is consumed incrementally.
func NewReader(r io.Reader) *Reader {
	src := &alignedReader{r: r}
	lr := NewStreamReader(tokenizer.NewStreamFromReader(src))
	lr.src = src
	return lr
}

// NewStringReader creates a Reader over an in-memory string.
func NewStringReader(s string) *Reader {
	return NewStreamReader(tokenizer.NewStream(s))
}

// NewStreamReader creates a Reader over a pre-configured stream.
func NewStreamReader(stream tokenizer.Stream) *Reader {
	return &Reader{stream: stream}
}

// Next returns the next logical line. It returns false once the input is
// exhausted. An input ending in a line terminator does not produce a
// trailing empty line.
func (r *Reader) Next() (Line, bool) {
	if r.stream.IsEos() {
		return Line{}, false
	}

	r.sb.Reset()
	r.row++
	line := Line{Number: r.row}

	terminated := r.readPhysical()
	for terminated && r.continues() {
		r.stream.NextChar() // indicator
		r.row++
		terminated = r.readPhysical()
	}

	line.Text = r.sb.String()
	return line, true
}

// Err returns the first non-EOF error from the underlying io.Reader.
// Input after such an error is treated as missing.
func (r *Reader) Err() error {
	if r.src == nil {
		return nil
	}
	return r.src.err
}

// LinesRead returns the number of physical lines consumed so far.
func (r *Reader) LinesRead() int {
	return r.row
}

// readPhysical appends one physical line to the buffer, dropping the
// terminator. It reports whether a newline ended the line.
func (r *Reader) readPhysical() bool {
	for {
		c, ok := r.stream.NextChar()
		if !ok {
			return false
		}
		if c == '\n' {
			r.trimCR()
			return true
		}
		r.sb.WriteRune(c)
	}
}

func (r *Reader) continues() bool {
	c, ok := r.stream.PeekChar()
	return ok && (c == ' ' || c == '\t')
}

// trimCR removes a single carriage return left before the newline.
func (r *Reader) trimCR() {
	s := r.sb.String()
	if strings.HasSuffix(s, "\r") {
		r.sb.Reset()
		r.sb.WriteString(s[:len(s)-1])
	}
}

// alignedReader never ends a read in the middle of a UTF-8 sequence.
// The stream decoder treats a split sequence as invalid bytes and drops it.
type alignedReader struct {
	r    io.Reader
	tail []byte
	err  error
}

func (a *alignedReader) Read(p []byte) (int, error) {
	n := copy(p, a.tail)
	a.tail = a.tail[:0]
	for {
		if n == len(p) {
			return n, nil
		}
		m, err := a.r.Read(p[n:])
		n += m
		if err != nil {
			if !errors.Is(err, io.EOF) && a.err == nil {
				a.err = err
			}
			return n, err
		}
		if cut := runeBoundary(p[:n]); cut > 0 {
			a.tail = append(a.tail, p[cut:n]...)
			return cut, nil
		}
	}
}

// runeBoundary returns the length of the longest prefix of b that does not
// end inside an incomplete UTF-8 sequence.
func runeBoundary(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if utf8.FullRune(b[i:]) {
				return len(b)
			}
			return i
		}
	}
	return len(b)
}

// Fold splits line into physical lines of at most max characters each.
// The first line carries max characters; every continuation starts with a
// single space followed by up to max-1 characters. Lengths are counted in
// runes so a multi-byte character is never split. A max below 2 disables
// folding.
func Fold(line string, max int) []string {
	runes := []rune(line)
	if max < 2 || len(runes) <= max {
		return []string{line}
	}

	out := make([]string, 0, 1+len(runes)/(max-1))
	out = append(out, string(runes[:max]))
	for rest := runes[max:]; len(rest) > 0; {
		n := min(max-1, len(rest))
		out = append(out, " "+string(rest[:n]))
		rest = rest[n:]
	}
	return out
}
