package vcard

import (
	"bytes"
	"maps"
	"slices"
	"strings"
)

// Card is one immutable contact record.
//
// Cards come from Parse, Scanner or Builder. Accessors return copies, so a
// Card can be shared between goroutines without synchronization.
type Card struct {
	version       Version
	formattedName string
	name          Name
	hasName       bool
	kind          Kind
	phones        []PhoneNumber
	emails        []EmailAddress
	addresses     []PostalAddress
	organization  string
	title         string
	birthday      string
	note          string
	members       []string
	photoData     []byte
	photoURI      string

	rawNames []string            // first-encounter order
	raw      map[string][]string // upper-cased name → values
}

// Version returns the declared VERSION, or VersionUnknown.
func (c *Card) Version() Version { return c.version }

// FormattedName returns FN. An empty string means absent.
func (c *Card) FormattedName() string { return c.formattedName }

// Name returns the structured N property and whether it was present.
func (c *Card) Name() (Name, bool) { return c.name, c.hasName }

// Kind returns KIND. An empty string means absent.
func (c *Card) Kind() Kind { return c.kind }

// PhoneNumbers returns the TEL properties in encounter order.
func (c *Card) PhoneNumbers() []PhoneNumber {
	out := make([]PhoneNumber, len(c.phones))
	for i, p := range c.phones {
		out[i] = p.clone()
	}
	return out
}

// Emails returns the EMAIL properties in encounter order.
func (c *Card) Emails() []EmailAddress {
	out := make([]EmailAddress, len(c.emails))
	for i, e := range c.emails {
		out[i] = e.clone()
	}
	return out
}

// Addresses returns the ADR properties in encounter order.
func (c *Card) Addresses() []PostalAddress {
	out := make([]PostalAddress, len(c.addresses))
	for i, a := range c.addresses {
		out[i] = a.clone()
	}
	return out
}

// Organization returns ORG.
func (c *Card) Organization() string { return c.organization }

// Title returns TITLE.
func (c *Card) Title() string { return c.title }

// Birthday returns BDAY as written. It is not validated.
func (c *Card) Birthday() string { return c.birthday }

// Note returns NOTE.
func (c *Card) Note() string { return c.note }

// Members returns the MEMBER references of a group card.
func (c *Card) Members() []string { return slices.Clone(c.members) }

// PhotoData returns the embedded photo. A nil result means the card has no
// embedded photo; an empty non-nil slice is an empty payload.
func (c *Card) PhotoData() []byte {
	if c.photoData == nil {
		return nil
	}
	return bytes.Clone(c.photoData)
}

// PhotoURI returns the photo reference. It is empty when PhotoData is set.
func (c *Card) PhotoURI() string { return c.photoURI }

// HasPhoto reports whether the card carries a photo in either form.
func (c *Card) HasPhoto() bool { return c.photoData != nil || c.photoURI != "" }

// RawPropertyNames returns the names of unrecognized properties in
// first-encounter order. A grouped property keeps its "GROUP." prefix.
func (c *Card) RawPropertyNames() []string { return slices.Clone(c.rawNames) }

// RawProperty returns the values of an unrecognized property in encounter
// order. The lookup is case-insensitive.
func (c *Card) RawProperty(name string) []string {
	return slices.Clone(c.raw[strings.ToUpper(name)])
}

// RawProperties returns a copy of every unrecognized property.
func (c *Card) RawProperties() map[string][]string {
	out := make(map[string][]string, len(c.raw))
	for k, v := range c.raw {
		out[k] = slices.Clone(v)
	}
	return out
}

// Equal reports whether two cards hold the same data.
func (c *Card) Equal(other *Card) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.version == other.version &&
		c.formattedName == other.formattedName &&
		c.hasName == other.hasName && c.name == other.name &&
		c.kind == other.kind &&
		slices.EqualFunc(c.phones, other.phones, func(a, b PhoneNumber) bool {
			return a.Number == b.Number && sameTypes(a.StandardTypes, b.StandardTypes) &&
				slices.Equal(a.CustomTypes, b.CustomTypes)
		}) &&
		slices.EqualFunc(c.emails, other.emails, func(a, b EmailAddress) bool {
			return a.Address == b.Address && sameTypes(a.StandardTypes, b.StandardTypes) &&
				slices.Equal(a.CustomTypes, b.CustomTypes)
		}) &&
		slices.EqualFunc(c.addresses, other.addresses, func(a, b PostalAddress) bool {
			return slices.Equal(a.components(), b.components()) &&
				sameTypes(a.StandardTypes, b.StandardTypes) &&
				slices.Equal(a.CustomTypes, b.CustomTypes)
		}) &&
		c.organization == other.organization &&
		c.title == other.title &&
		c.birthday == other.birthday &&
		c.note == other.note &&
		slices.Equal(c.members, other.members) &&
		(c.photoData == nil) == (other.photoData == nil) &&
		bytes.Equal(c.photoData, other.photoData) &&
		c.photoURI == other.photoURI &&
		slices.Equal(c.rawNames, other.rawNames) &&
		maps.EqualFunc(c.raw, other.raw, slices.Equal[[]string])
}

// sameTypes compares standard types as sets.
func sameTypes[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for _, t := range a {
		if !slices.Contains(b, t) {
			return false
		}
	}
	return true
}

// clone returns a deep copy.
func (c *Card) clone() *Card {
	out := *c
	out.phones = c.PhoneNumbers()
	out.emails = c.Emails()
	out.addresses = c.Addresses()
	out.members = slices.Clone(c.members)
	out.photoData = c.PhotoData()
	out.rawNames = slices.Clone(c.rawNames)
	out.raw = c.RawProperties()
	return &out
}

// addRaw appends a value to an unrecognized property.
func (c *Card) addRaw(name, value string) {
	name = strings.ToUpper(name)
	if c.raw == nil {
		c.raw = make(map[string][]string)
	}
	if _, seen := c.raw[name]; !seen {
		c.rawNames = append(c.rawNames, name)
	}
	c.raw[name] = append(c.raw[name], value)
}
