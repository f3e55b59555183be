package vcard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shapestone/shape-vcard/internal/parser"
	"github.com/shapestone/shape-vcard/internal/typeset"
)

// Builder assembles a Card in code. All setters return *Builder to enable
// method chaining:
//
//	card, err := vcard.NewBuilder().
//		Version(vcard.V40).
//		FormattedName("Jane Doe").
//		AddPhone("+1-555-0100", "cell", "x-private").
//		Build()
//
// The first error from a setter is kept and returned by Build.
type Builder struct {
	d   *draft
	err error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{d: newDraft()}
}

// NewBuilderFrom returns a builder seeded with a copy of c.
func NewBuilderFrom(c *Card) *Builder {
	b := NewBuilder()
	if c != nil {
		b.d.card = *c.clone()
	}
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Version sets VERSION.
func (b *Builder) Version(v Version) *Builder {
	if !v.IsKnown() {
		return b.fail(fmt.Errorf("%w %q", ErrUnsupportedVersion, v.String()))
	}
	b.d.card.version = v
	return b
}

// FormattedName sets FN.
func (b *Builder) FormattedName(fn string) *Builder {
	b.d.card.formattedName = fn
	return b
}

// Name sets N.
func (b *Builder) Name(n Name) *Builder {
	b.d.card.name = n
	b.d.card.hasName = true
	return b
}

// Kind sets KIND.
func (b *Builder) Kind(k Kind) *Builder {
	parsed, ok := ParseKind(string(k))
	if !ok {
		return b.fail(fmt.Errorf("vcard: unknown kind %q", k))
	}
	b.d.card.kind = parsed
	return b
}

// AddPhone appends a TEL. Type strings are split on commas and classified
// case-insensitively.
func (b *Builder) AddPhone(number string, types ...string) *Builder {
	std, custom := typeset.Classify(typeset.SplitAll(types), phoneTypes)
	b.d.card.phones = append(b.d.card.phones, PhoneNumber{Number: number, StandardTypes: std, CustomTypes: custom})
	return b
}

// AddEmail appends an EMAIL. Type strings are split on commas and
// classified case-insensitively.
func (b *Builder) AddEmail(address string, types ...string) *Builder {
	std, custom := typeset.Classify(typeset.SplitAll(types), emailTypes)
	b.d.card.emails = append(b.d.card.emails, EmailAddress{Address: address, StandardTypes: std, CustomTypes: custom})
	return b
}

// AddAddress appends an ADR. Custom types are split on commas, and those
// naming a standard type are moved to StandardTypes.
func (b *Builder) AddAddress(a PostalAddress) *Builder {
	a = a.clone()
	a.StandardTypes, a.CustomTypes = typeset.Normalize(a.StandardTypes, a.CustomTypes, addressTypes)
	b.d.card.addresses = append(b.d.card.addresses, a)
	return b
}

// Organization sets ORG.
func (b *Builder) Organization(org string) *Builder {
	b.d.card.organization = org
	return b
}

// Title sets TITLE.
func (b *Builder) Title(title string) *Builder {
	b.d.card.title = title
	return b
}

// Birthday sets BDAY.
func (b *Builder) Birthday(bday string) *Builder {
	b.d.card.birthday = bday
	return b
}

// Note sets NOTE.
func (b *Builder) Note(note string) *Builder {
	b.d.card.note = note
	return b
}

// PhotoURI sets a photo reference and clears any embedded photo.
func (b *Builder) PhotoURI(uri string) *Builder {
	b.d.card.photoData, b.d.card.photoURI = nil, uri
	return b
}

// PhotoData embeds a photo and clears any photo reference. A nil slice
// removes the photo.
func (b *Builder) PhotoData(data []byte) *Builder {
	if data == nil {
		b.d.card.photoData = nil
		return b
	}
	b.d.card.photoData, b.d.card.photoURI = append([]byte{}, data...), ""
	return b
}

// AddMember appends a MEMBER reference.
func (b *Builder) AddMember(uri string) *Builder {
	b.d.card.members = append(b.d.card.members, uri)
	return b
}

// AddRaw appends an unrecognized property. The name may carry a group
// prefix. Recognized names must go through their typed setter or
// AddProperty.
func (b *Builder) AddRaw(name, value string) *Builder {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, ":;\"=, \t\r\n") {
		return b.fail(fmt.Errorf("%w: invalid property name %q", ErrMalformed, name))
	}
	_, base, grouped := strings.Cut(name, ".")
	if !grouped {
		base = name
	}
	if base == "" {
		return b.fail(fmt.Errorf("%w: invalid property name %q", ErrMalformed, name))
	}
	if _, known := handlers[strings.ToUpper(base)]; known {
		return b.fail(fmt.Errorf("vcard: %s is a recognized property", strings.ToUpper(base)))
	}
	b.d.card.addRaw(name, value)
	return b
}

// AddProperty parses one unfolded property line and stores it the way
// the parser would.
func (b *Builder) AddProperty(line string) *Builder {
	p, err := parser.ParseLine(line)
	if err != nil {
		return b.fail(err)
	}
	if err := b.d.route(p); err != nil {
		return b.fail(err)
	}
	return b
}

// GenerateUID adds a random "urn:uuid:" UID unless the card already has one.
func (b *Builder) GenerateUID() *Builder {
	if len(b.d.card.raw["UID"]) > 0 {
		return b
	}
	b.d.card.addRaw("UID", uuid.New().URN())
	return b
}

// Build returns the card. It fails with the first setter error, or with
// ErrMissingRequiredField when VERSION or FN is absent.
func (b *Builder) Build() (*Card, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.d.validate(); err != nil {
		return nil, err
	}
	return b.d.build(), nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Card {
	c, err := b.Build()
	if err != nil {
		panic(errors.Join(errors.New("vcard: MustBuild"), err))
	}
	return c
}
