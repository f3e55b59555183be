package vcard

import (
	"fmt"
	"io"
	"strings"

	logging "github.com/ipfs/go-log/v2"

	"github.com/shapestone/shape-vcard/internal/folding"
	"github.com/shapestone/shape-vcard/internal/parser"
	"github.com/shapestone/shape-vcard/internal/typeset"
)

var log = logging.Logger("vcard")

const (
	beginMarker = "BEGIN:VCARD"
	endMarker   = "END:VCARD"
)

// Property is one parsed property line.
type Property = parser.Property

// ParseProperty parses one unfolded property line.
func ParseProperty(line string) (Property, error) {
	return parser.ParseLine(line)
}

// draft is the mutable staging area for a record under assembly.
type draft struct {
	card Card
}

func newDraft() *draft {
	return &draft{}
}

// build hands out an immutable deep copy.
func (d *draft) build() *Card {
	return d.card.clone()
}

// validate applies the strict-mode required-field rules.
func (d *draft) validate() error {
	if d.card.version == VersionUnknown {
		return fmt.Errorf("%w: VERSION", ErrMissingRequiredField)
	}
	if strings.TrimSpace(d.card.formattedName) == "" {
		return fmt.Errorf("%w: FN", ErrMissingRequiredField)
	}
	return nil
}

// handler stores one recognized property in the draft.
type handler func(d *draft, p Property) error

// handlers maps recognized property names to their handler. Every other
// name is kept as a raw property.
var handlers = map[string]handler{
	"VERSION": handleVersion,
	"FN":      handleFormattedName,
	"N":       handleName,
	"KIND":    handleKind,
	"TEL":     handlePhone,
	"EMAIL":   handleEmail,
	"ADR":     handleAddress,
	"ORG":     handleOrganization,
	"TITLE":   handleTitle,
	"PHOTO":   handlePhoto,
	"BDAY":    handleBirthday,
	"NOTE":    handleNote,
	"MEMBER":  handleMember,
}

// route dispatches p to its handler or the raw property store.
func (d *draft) route(p Property) error {
	if h, ok := handlers[p.Name]; ok {
		return h(d, p)
	}
	d.card.addRaw(p.Key(), p.Value)
	return nil
}

func handleVersion(d *draft, p Property) error {
	v, ok := ParseVersion(p.Value)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnsupportedVersion, p.Value)
	}
	d.card.version = v
	return nil
}

func handleFormattedName(d *draft, p Property) error {
	d.card.formattedName = p.Value
	return nil
}

func handleName(d *draft, p Property) error {
	d.card.name = nameFromComponents(p.Components())
	d.card.hasName = true
	return nil
}

func handleKind(d *draft, p Property) error {
	if k, ok := ParseKind(p.Value); ok {
		d.card.kind = k
		return nil
	}
	d.card.addRaw(p.Key(), p.Value)
	return nil
}

func handlePhone(d *draft, p Property) error {
	std, custom := typeset.Classify(typeTokens(p), phoneTypes)
	d.card.phones = append(d.card.phones, PhoneNumber{Number: p.Value, StandardTypes: std, CustomTypes: custom})
	return nil
}

func handleEmail(d *draft, p Property) error {
	std, custom := typeset.Classify(typeTokens(p), emailTypes)
	d.card.emails = append(d.card.emails, EmailAddress{Address: p.Value, StandardTypes: std, CustomTypes: custom})
	return nil
}

func handleAddress(d *draft, p Property) error {
	std, custom := typeset.Classify(typeTokens(p), addressTypes)
	addr := PostalAddress{StandardTypes: std, CustomTypes: custom}
	addr.setComponents(p.Components())
	d.card.addresses = append(d.card.addresses, addr)
	return nil
}

func handleOrganization(d *draft, p Property) error {
	d.card.organization = p.Value
	return nil
}

func handleTitle(d *draft, p Property) error {
	d.card.title = p.Value
	return nil
}

func handleBirthday(d *draft, p Property) error {
	d.card.birthday = p.Value
	return nil
}

// handleNote also decodes \n and \, left over by producers that escape twice.
func handleNote(d *draft, p Property) error {
	d.card.note = strings.NewReplacer(`\n`, "\n", `\,`, ",").Replace(p.Value)
	return nil
}

func handleMember(d *draft, p Property) error {
	d.card.members = append(d.card.members, p.Value)
	return nil
}

func typeTokens(p Property) []string {
	v, _ := p.Param("TYPE")
	return typeset.SplitTokens(v)
}

// state is the position of the assembler relative to record boundaries.
type state int

const (
	stateIdle state = iota
	stateInRecord
	// stateDiscarding drops the rest of a record that failed in strict mode.
	stateDiscarding
)

// assembler turns logical lines into cards. It pulls one line at a time and
// never reads ahead of the card it returns.
type assembler struct {
	lines     *folding.Reader
	opts      ReaderOptions
	state     state
	draft     *draft
	startLine int
	lastLine  int
	ioDone    bool
}

func newAssembler(lines *folding.Reader, opts ReaderOptions) *assembler {
	return &assembler{lines: lines, opts: opts}
}

// next returns the next card. A non-nil error describes one failed record
// (strict mode) or a read failure; calling next again continues after it.
// It returns io.EOF once the input is exhausted.
func (a *assembler) next() (*Card, error) {
	for {
		line, ok := a.lines.Next()
		if !ok {
			return a.finishInput()
		}
		a.lastLine = line.Number

		marker := strings.TrimSpace(line.Text)
		switch {
		case marker == "":
			continue

		case strings.EqualFold(marker, beginMarker):
			wasOpen := a.state == stateInRecord
			prevStart := a.startLine
			a.state, a.draft, a.startLine = stateInRecord, newDraft(), line.Number
			if wasOpen {
				if err := a.problem(prevStart, line.Number, ErrNestedBegin); err != nil {
					return nil, err
				}
			}

		case strings.EqualFold(marker, endMarker):
			switch a.state {
			case stateIdle:
				if err := a.problem(line.Number, line.Number, ErrOutsideRecord); err != nil {
					return nil, err
				}
			case stateDiscarding:
				a.state = stateIdle
			case stateInRecord:
				a.state = stateIdle
				d := a.draft
				a.draft = nil
				if a.opts.Strict {
					if err := d.validate(); err != nil {
						return nil, &ParseError{StartLine: a.startLine, Line: line.Number, Err: err}
					}
				}
				return d.build(), nil
			}

		default:
			switch a.state {
			case stateIdle:
				if err := a.problem(line.Number, line.Number, ErrOutsideRecord); err != nil {
					return nil, err
				}
			case stateDiscarding:
			case stateInRecord:
				if err := a.property(line); err != nil {
					if perr := a.problem(a.startLine, line.Number, err); perr != nil {
						a.state, a.draft = stateDiscarding, nil
						return nil, perr
					}
				}
			}
		}
	}
}

func (a *assembler) property(line folding.Line) error {
	p, err := parser.ParseLine(line.Text)
	if err != nil {
		return err
	}
	p.Line = line.Number
	return a.draft.route(p)
}

// finishInput handles the end of input, including an open record.
func (a *assembler) finishInput() (*Card, error) {
	if a.ioDone {
		return nil, io.EOF
	}
	a.ioDone = true

	if err := a.lines.Err(); err != nil {
		a.state, a.draft = stateIdle, nil
		return nil, fmt.Errorf("vcard: read input: %w", err)
	}

	if a.state == stateInRecord {
		a.state, a.draft = stateIdle, nil
		if err := a.problem(a.startLine, a.lastLine, ErrUnterminatedRecord); err != nil {
			return nil, err
		}
	}
	return nil, io.EOF
}

// problem applies the strict/lenient policy. In strict mode it returns the
// positioned error; otherwise it reports a warning and returns nil.
func (a *assembler) problem(startLine, line int, err error) error {
	if a.opts.Strict {
		return &ParseError{StartLine: startLine, Line: line, Err: err}
	}
	a.warn(line, err.Error())
	return nil
}

func (a *assembler) warn(line int, message string) {
	log.Debugw("skipping input", "line", line, "reason", message)
	if a.opts.WarningCallback != nil {
		a.opts.WarningCallback(line, message)
	}
}

// FromProperties assembles one card from already parsed properties, applying
// the same routing and policy as the text parser. BEGIN, END and blank
// names are ignored.
func FromProperties(props []Property, opts ReaderOptions) (*Card, error) {
	d := newDraft()
	for _, p := range props {
		if p.Name == "" || p.Name == "BEGIN" || p.Name == "END" {
			continue
		}
		if err := d.route(p); err != nil {
			if opts.Strict {
				return nil, &ParseError{StartLine: p.Line, Line: p.Line, Err: err}
			}
			log.Debugw("skipping property", "name", p.Name, "reason", err.Error())
			if opts.WarningCallback != nil {
				opts.WarningCallback(p.Line, err.Error())
			}
		}
	}
	if opts.Strict {
		if err := d.validate(); err != nil {
			return nil, err
		}
	}
	return d.build(), nil
}
