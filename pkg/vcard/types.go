package vcard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shapestone/shape-vcard/internal/typeset"
)

// Version is a vCard format revision.
type Version int

const (
	// VersionUnknown means no VERSION property was seen.
	VersionUnknown Version = iota
	// V21 is vCard 2.1.
	V21
	// V30 is vCard 3.0 (RFC 2426).
	V30
	// V40 is vCard 4.0 (RFC 6350).
	V40
)

// String returns the version as written in the VERSION property.
func (v Version) String() string {
	switch v {
	case V21:
		return "2.1"
	case V30:
		return "3.0"
	case V40:
		return "4.0"
	case VersionUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// IsKnown reports whether v is one of the supported revisions.
func (v Version) IsKnown() bool {
	return v == V21 || v == V30 || v == V40
}

// ParseVersion parses a VERSION value such as "3.0".
func ParseVersion(s string) (Version, bool) {
	switch strings.TrimSpace(s) {
	case "2.1":
		return V21, true
	case "3.0":
		return V30, true
	case "4.0":
		return V40, true
	default:
		return VersionUnknown, false
	}
}

// PhoneType is a standard TEL type.
type PhoneType string

// Standard TEL types.
const (
	PhoneHome  PhoneType = "HOME"
	PhoneWork  PhoneType = "WORK"
	PhonePref  PhoneType = "PREF"
	PhoneVoice PhoneType = "VOICE"
	PhoneFax   PhoneType = "FAX"
	PhoneMsg   PhoneType = "MSG"
	PhoneCell  PhoneType = "CELL"
	PhonePager PhoneType = "PAGER"
	PhoneBBS   PhoneType = "BBS"
	PhoneModem PhoneType = "MODEM"
	PhoneCar   PhoneType = "CAR"
	PhoneISDN  PhoneType = "ISDN"
	PhoneVideo PhoneType = "VIDEO"
)

var phoneTypes = []PhoneType{
	PhoneHome, PhoneWork, PhonePref, PhoneVoice, PhoneFax, PhoneMsg, PhoneCell,
	PhonePager, PhoneBBS, PhoneModem, PhoneCar, PhoneISDN, PhoneVideo,
}

// PhoneTypes returns every standard TEL type in declaration order.
func PhoneTypes() []PhoneType { return slices.Clone(phoneTypes) }

// EmailType is a standard EMAIL type.
type EmailType string

// Standard EMAIL types.
const (
	EmailInternet EmailType = "INTERNET"
	EmailPref     EmailType = "PREF"
)

var emailTypes = []EmailType{EmailInternet, EmailPref}

// EmailTypes returns every standard EMAIL type in declaration order.
func EmailTypes() []EmailType { return slices.Clone(emailTypes) }

// AddressType is a standard ADR type.
type AddressType string

// Standard ADR types.
const (
	AddressHome AddressType = "HOME"
	AddressWork AddressType = "WORK"
	AddressPref AddressType = "PREF"
)

var addressTypes = []AddressType{AddressHome, AddressWork, AddressPref}

// AddressTypes returns every standard ADR type in declaration order.
func AddressTypes() []AddressType { return slices.Clone(addressTypes) }

// Kind is the vCard 4.0 KIND of the object a card describes.
type Kind string

// Kinds defined by RFC 6350.
const (
	KindIndividual Kind = "individual"
	KindGroup      Kind = "group"
	KindOrg        Kind = "org"
	KindLocation   Kind = "location"
)

var kinds = []Kind{KindIndividual, KindGroup, KindOrg, KindLocation}

// ParseKind parses a KIND value case-insensitively.
func ParseKind(s string) (Kind, bool) {
	return typeset.Parse(s, kinds)
}

// Name is the structured N property.
type Name struct {
	Family     string
	Given      string
	Additional string
	Prefix     string
	Suffix     string
}

func (n Name) components() []string {
	return []string{n.Family, n.Given, n.Additional, n.Prefix, n.Suffix}
}

func nameFromComponents(c []string) Name {
	return Name{
		Family:     component(c, 0),
		Given:      component(c, 1),
		Additional: component(c, 2),
		Prefix:     component(c, 3),
		Suffix:     component(c, 4),
	}
}

// PhoneNumber is one TEL property.
type PhoneNumber struct {
	Number        string
	StandardTypes []PhoneType
	CustomTypes   []string
}

// IsType reports whether t is among the standard types.
func (p PhoneNumber) IsType(t PhoneType) bool {
	return slices.Contains(p.StandardTypes, t)
}

// HasCustomType reports whether s is among the custom types, ignoring case.
func (p PhoneNumber) HasCustomType(s string) bool {
	return typeset.ContainsFold(p.CustomTypes, s)
}

func (p PhoneNumber) clone() PhoneNumber {
	p.StandardTypes = slices.Clone(p.StandardTypes)
	p.CustomTypes = slices.Clone(p.CustomTypes)
	return p
}

// EmailAddress is one EMAIL property.
type EmailAddress struct {
	Address       string
	StandardTypes []EmailType
	CustomTypes   []string
}

// IsType reports whether t is among the standard types.
func (e EmailAddress) IsType(t EmailType) bool {
	return slices.Contains(e.StandardTypes, t)
}

// HasCustomType reports whether s is among the custom types, ignoring case.
func (e EmailAddress) HasCustomType(s string) bool {
	return typeset.ContainsFold(e.CustomTypes, s)
}

func (e EmailAddress) clone() EmailAddress {
	e.StandardTypes = slices.Clone(e.StandardTypes)
	e.CustomTypes = slices.Clone(e.CustomTypes)
	return e
}

// PostalAddress is one ADR property. Every component is optional; an empty
// string means the component is absent.
type PostalAddress struct {
	StandardTypes []AddressType
	CustomTypes   []string

	POBox      string
	Extended   string
	Street     string
	Locality   string
	Region     string
	PostalCode string
	Country    string
}

// IsType reports whether t is among the standard types.
func (a PostalAddress) IsType(t AddressType) bool {
	return slices.Contains(a.StandardTypes, t)
}

// HasCustomType reports whether s is among the custom types, ignoring case.
func (a PostalAddress) HasCustomType(s string) bool {
	return typeset.ContainsFold(a.CustomTypes, s)
}

func (a PostalAddress) clone() PostalAddress {
	a.StandardTypes = slices.Clone(a.StandardTypes)
	a.CustomTypes = slices.Clone(a.CustomTypes)
	return a
}

func (a PostalAddress) components() []string {
	return []string{a.POBox, a.Extended, a.Street, a.Locality, a.Region, a.PostalCode, a.Country}
}

func (a *PostalAddress) setComponents(c []string) {
	a.POBox = component(c, 0)
	a.Extended = component(c, 1)
	a.Street = component(c, 2)
	a.Locality = component(c, 3)
	a.Region = component(c, 4)
	a.PostalCode = component(c, 5)
	a.Country = component(c, 6)
}

// component returns the i-th positional component, or "" when it was never written.
func component(c []string, i int) string {
	if i < len(c) {
		return c[i]
	}
	return ""
}
