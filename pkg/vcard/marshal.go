package vcard

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/shapestone/shape-vcard/internal/pool"
)

// Marshaler is the interface implemented by types that can render
// themselves as vCard text.
type Marshaler interface {
	MarshalVCard() ([]byte, error)
}

// Unmarshaler is the interface implemented by types that can load
// themselves from vCard text.
type Unmarshaler interface {
	UnmarshalVCard([]byte) error
}

// Marshal renders cards with the default writer options. Cards are
// separated by CRLF; the result has no trailing separator.
func Marshal(cards []*Card) ([]byte, error) {
	return MarshalWithOptions(cards, DefaultWriterOptions())
}

// MarshalWithOptions renders cards with opts.
func MarshalWithOptions(cards []*Card, opts WriterOptions) ([]byte, error) {
	w, err := NewWriter(opts)
	if err != nil {
		return nil, err
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	for i, c := range cards {
		if c == nil {
			return nil, errors.New("vcard: marshal nil card")
		}
		if i > 0 {
			buf.WriteString(crlf)
		}
		w.writeCard(buf, c)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Unmarshal parses data leniently and stores the cards in *v.
//
// v may also implement Unmarshaler, in which case it receives data as is.
func Unmarshal(data []byte, v any) error {
	switch t := v.(type) {
	case Unmarshaler:
		return t.UnmarshalVCard(data)
	case *[]*Card:
		if t == nil {
			return errors.New("vcard: Unmarshal(nil *[]*Card)")
		}
		cards, err := Parse(string(data))
		if err != nil {
			return err
		}
		*t = cards
		return nil
	case *[]Card:
		if t == nil {
			return errors.New("vcard: Unmarshal(nil *[]Card)")
		}
		cards, err := Parse(string(data))
		if err != nil {
			return err
		}
		out := make([]Card, len(cards))
		for i, c := range cards {
			out[i] = *c
		}
		*t = out
		return nil
	}
	return errors.New("vcard: Unmarshal target must be *[]*Card, *[]Card or an Unmarshaler")
}

// MarshalVCard renders c with the default writer options.
func (c *Card) MarshalVCard() ([]byte, error) {
	return []byte(Render(c)), nil
}

// jsonCard is the JSON view of a Card.
type jsonCard struct {
	Version       string              `json:"version,omitempty"`
	FormattedName string              `json:"fn"`
	Name          *jsonName           `json:"n,omitempty"`
	Kind          Kind                `json:"kind,omitempty"`
	Phones        []jsonTyped         `json:"tel,omitempty"`
	Emails        []jsonTyped         `json:"email,omitempty"`
	Addresses     []jsonAddress       `json:"adr,omitempty"`
	Organization  string              `json:"org,omitempty"`
	Title         string              `json:"title,omitempty"`
	Birthday      string              `json:"bday,omitempty"`
	Note          string              `json:"note,omitempty"`
	Members       []string            `json:"member,omitempty"`
	Photo         *jsonPhoto          `json:"photo,omitempty"`
	Raw           map[string][]string `json:"raw,omitempty"`
}

type jsonTyped struct {
	Value string   `json:"value"`
	Types []string `json:"types,omitempty"`
}

type jsonAddress struct {
	POBox      string   `json:"poBox,omitempty"`
	Extended   string   `json:"extended,omitempty"`
	Street     string   `json:"street,omitempty"`
	Locality   string   `json:"locality,omitempty"`
	Region     string   `json:"region,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
	Types      []string `json:"types,omitempty"`
}

type jsonName struct {
	Family     string `json:"family"`
	Given      string `json:"given"`
	Additional string `json:"additional,omitempty"`
	Prefix     string `json:"prefix,omitempty"`
	Suffix     string `json:"suffix,omitempty"`
}

type jsonPhoto struct {
	MediaType string `json:"mediaType,omitempty"`
	Data      string `json:"data,omitempty"`
	URI       string `json:"uri,omitempty"`
}

// MarshalJSON renders a JSON summary of c. Standard and custom types are
// merged into one "types" list; photo data is base64-encoded.
func (c *Card) MarshalJSON() ([]byte, error) {
	v := jsonCard{
		FormattedName: c.formattedName,
		Kind:          c.kind,
		Organization:  c.organization,
		Title:         c.title,
		Birthday:      c.birthday,
		Note:          c.note,
		Members:       c.members,
	}
	if c.version.IsKnown() {
		v.Version = c.version.String()
	}
	if c.hasName {
		v.Name = &jsonName{
			Family:     c.name.Family,
			Given:      c.name.Given,
			Additional: c.name.Additional,
			Prefix:     c.name.Prefix,
			Suffix:     c.name.Suffix,
		}
	}
	for _, p := range c.phones {
		v.Phones = append(v.Phones, jsonTyped{Value: p.Number, Types: mergedTypes(p.StandardTypes, p.CustomTypes)})
	}
	for _, e := range c.emails {
		v.Emails = append(v.Emails, jsonTyped{Value: e.Address, Types: mergedTypes(e.StandardTypes, e.CustomTypes)})
	}
	for _, a := range c.addresses {
		v.Addresses = append(v.Addresses, jsonAddress{
			POBox:      a.POBox,
			Extended:   a.Extended,
			Street:     a.Street,
			Locality:   a.Locality,
			Region:     a.Region,
			PostalCode: a.PostalCode,
			Country:    a.Country,
			Types:      mergedTypes(a.StandardTypes, a.CustomTypes),
		})
	}
	switch {
	case c.photoData != nil:
		v.Photo = &jsonPhoto{MediaType: detectPhotoType(c.photoData), Data: base64.StdEncoding.EncodeToString(c.photoData)}
	case c.photoURI != "":
		v.Photo = &jsonPhoto{URI: c.photoURI}
	}
	if len(c.raw) > 0 {
		v.Raw = c.raw
	}
	return json.Marshal(v)
}

func mergedTypes[T ~string](standard []T, custom []string) []string {
	out := make([]string, 0, len(standard)+len(custom))
	for _, s := range standard {
		out = append(out, string(s))
	}
	return append(out, custom...)
}
