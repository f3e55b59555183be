package vcard

import (
	"io"
	"strings"

	"github.com/shapestone/shape-vcard/internal/folding"
	"github.com/shapestone/shape-vcard/internal/parser"
	"github.com/shapestone/shape-vcard/internal/pool"
	"github.com/shapestone/shape-vcard/internal/typeset"
)

const crlf = "\r\n"

// Writer serializes cards to text.
//
// Properties are emitted in a fixed order: VERSION, then KIND and MEMBER
// (4.0 only), FN, N, TEL, EMAIL, ADR, ORG, TITLE, BDAY, NOTE, PHOTO and
// finally unrecognized properties in their original order. Lines end with
// CRLF; the last line of a card has no terminator.
type Writer struct {
	opts WriterOptions
}

// NewWriter creates a Writer. It returns an *OptionsError for invalid options.
func NewWriter(opts WriterOptions) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Writer{opts: opts}, nil
}

// Options returns the writer configuration.
func (w *Writer) Options() WriterOptions {
	return w.opts
}

// Write renders one card.
func (w *Writer) Write(c *Card) string {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)
	w.writeCard(buf, c)
	return buf.String()
}

// WriteAll renders cards separated by a single CRLF.
func (w *Writer) WriteAll(cards []*Card) string {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)
	for i, c := range cards {
		if i > 0 {
			buf.WriteString(crlf)
		}
		w.writeCard(buf, c)
	}
	return buf.String()
}

// Lines returns the logical lines of a card, before folding.
func (w *Writer) Lines(c *Card) []string {
	return w.lines(c, nil)
}

func (w *Writer) writeCard(sw io.StringWriter, c *Card) {
	lines := w.lines(c, pool.GetLines())
	defer pool.PutLines(lines)

	first := true
	for _, line := range lines {
		for _, physical := range w.fold(line) {
			if !first {
				sw.WriteString(crlf)
			}
			first = false
			sw.WriteString(physical)
		}
	}
}

func (w *Writer) fold(line string) []string {
	if !w.opts.FoldLines {
		return []string{line}
	}
	return folding.Fold(line, w.opts.MaxLineLength)
}

// lines appends the logical lines of c to dst.
func (w *Writer) lines(c *Card, dst []string) []string {
	v := w.opts.TargetVersion
	dst = append(dst, beginMarker, "VERSION:"+v.String())

	if v == V40 {
		if c.kind != "" {
			dst = append(dst, textLine("KIND", strings.ToLower(string(c.kind))))
		}
		for _, m := range c.members {
			dst = append(dst, uriLine("MEMBER", "", m))
		}
	}

	if c.formattedName != "" {
		dst = append(dst, textLine("FN", c.formattedName))
	}
	if c.hasName {
		dst = append(dst, "N:"+parser.JoinComponents(c.name.components()))
	}
	for _, p := range c.phones {
		dst = append(dst, "TEL"+typeParam(typeset.Join(p.StandardTypes, p.CustomTypes))+":"+parser.Escape(p.Number))
	}
	for _, e := range c.emails {
		dst = append(dst, "EMAIL"+typeParam(typeset.Join(e.StandardTypes, e.CustomTypes))+":"+parser.Escape(e.Address))
	}
	for _, a := range c.addresses {
		dst = append(dst, "ADR"+typeParam(typeset.Join(a.StandardTypes, a.CustomTypes))+":"+parser.JoinComponents(a.components()))
	}
	if c.organization != "" {
		dst = append(dst, textLine("ORG", c.organization))
	}
	if c.title != "" {
		dst = append(dst, textLine("TITLE", c.title))
	}
	if c.birthday != "" {
		dst = append(dst, textLine("BDAY", c.birthday))
	}
	if c.note != "" {
		dst = append(dst, textLine("NOTE", c.note))
	}

	if c.photoData != nil {
		dst = append(dst, photoLine(v, c.photoData))
	} else if c.photoURI != "" {
		dst = append(dst, photoURILine(c.photoURI))
	}

	for _, name := range c.rawNames {
		if name == "BEGIN" || name == "END" {
			continue
		}
		for _, value := range c.raw[name] {
			dst = append(dst, textLine(name, value))
		}
	}

	return append(dst, endMarker)
}

func textLine(name, value string) string {
	return name + ":" + parser.Escape(value)
}

// uriLine leaves a URI unescaped unless parsing would alter it.
func uriLine(name, params, uri string) string {
	if strings.ContainsAny(uri, "\\\n") {
		uri = parser.Escape(uri)
	}
	return name + params + ":" + uri
}

// typeParam renders ";TYPE=..." or nothing. Values containing ':' or ';'
// are quoted; double quotes cannot be represented and are dropped.
func typeParam(types string) string {
	if types == "" {
		return ""
	}
	types = strings.ReplaceAll(types, `"`, "")
	if strings.ContainsAny(types, ":;") {
		return `;TYPE="` + types + `"`
	}
	return ";TYPE=" + types
}

// Encoder writes cards to an io.Writer, separated by CRLF.
type Encoder struct {
	w      io.Writer
	writer *Writer
	count  int
}

// NewEncoder creates an Encoder. It returns an *OptionsError for invalid options.
func NewEncoder(w io.Writer, opts WriterOptions) (*Encoder, error) {
	writer, err := NewWriter(opts)
	if err != nil {
		return nil, err
	}
	return &Encoder{w: w, writer: writer}, nil
}

// Encode writes one card.
func (e *Encoder) Encode(c *Card) error {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	if e.count > 0 {
		buf.WriteString(crlf)
	}
	e.writer.writeCard(buf, c)
	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return err
	}
	e.count++
	return nil
}

// Render renders one card with the default writer options.
func Render(c *Card) string {
	w := &Writer{opts: DefaultWriterOptions()}
	return w.Write(c)
}

// RenderAll renders cards with the default writer options.
func RenderAll(cards []*Card) string {
	w := &Writer{opts: DefaultWriterOptions()}
	return w.WriteAll(cards)
}

// RenderWithOptions renders cards with custom options.
//
// Example:
//
//	opts := vcard.DefaultWriterOptions()
//	opts.TargetVersion = vcard.V40
//	opts.FoldLines = false
//	text, err := vcard.RenderWithOptions(opts, card)
func RenderWithOptions(opts WriterOptions, cards ...*Card) (string, error) {
	w, err := NewWriter(opts)
	if err != nil {
		return "", err
	}
	return w.WriteAll(cards), nil
}
