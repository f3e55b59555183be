// Package bridge converts between vcard.Card and the map-based card model of
// github.com/emersion/go-vcard, and exposes that library's decoder and
// encoder as an alternative engine.
//
// The map model has no property order, so unrecognized properties come back
// sorted by name. Structured components (N, ADR) must not contain ';'.
package bridge

import (
	"encoding/base64"
	"errors"
	"io"
	"sort"
	"strings"

	govcard "github.com/emersion/go-vcard"

	"github.com/shapestone/shape-vcard/internal/parser"
	"github.com/shapestone/shape-vcard/pkg/vcard"
)

// structured properties carry ';'-separated components in the map model.
var structured = map[string]bool{
	govcard.FieldName:    true,
	govcard.FieldAddress: true,
}

// ToGoVCard converts c to the map model. Cards without a known version are
// labelled 4.0.
func ToGoVCard(c *vcard.Card) govcard.Card {
	gc := make(govcard.Card)

	v := c.Version()
	if !v.IsKnown() {
		v = vcard.V40
	}
	gc.SetValue(govcard.FieldVersion, v.String())

	if fn := c.FormattedName(); fn != "" {
		gc.AddValue(govcard.FieldFormattedName, fn)
	}
	if n, ok := c.Name(); ok {
		gc.AddName(&govcard.Name{
			FamilyName:      n.Family,
			GivenName:       n.Given,
			AdditionalName:  n.Additional,
			HonorificPrefix: n.Prefix,
			HonorificSuffix: n.Suffix,
		})
	}
	if k := c.Kind(); k != "" {
		gc.SetKind(govcard.Kind(strings.ToLower(string(k))))
	}
	for _, p := range c.PhoneNumbers() {
		gc.Add(govcard.FieldTelephone, &govcard.Field{Value: p.Number, Params: typeParams(p.StandardTypes, p.CustomTypes)})
	}
	for _, e := range c.Emails() {
		gc.Add(govcard.FieldEmail, &govcard.Field{Value: e.Address, Params: typeParams(e.StandardTypes, e.CustomTypes)})
	}
	for _, a := range c.Addresses() {
		gc.AddAddress(&govcard.Address{
			Field:           &govcard.Field{Params: typeParams(a.StandardTypes, a.CustomTypes)},
			PostOfficeBox:   a.POBox,
			ExtendedAddress: a.Extended,
			StreetAddress:   a.Street,
			Locality:        a.Locality,
			Region:          a.Region,
			PostalCode:      a.PostalCode,
			Country:         a.Country,
		})
	}
	for field, value := range map[string]string{
		govcard.FieldOrganization: c.Organization(),
		govcard.FieldTitle:        c.Title(),
		govcard.FieldBirthday:     c.Birthday(),
		govcard.FieldNote:         c.Note(),
	} {
		if value != "" {
			gc.AddValue(field, value)
		}
	}
	for _, m := range c.Members() {
		gc.AddValue(govcard.FieldMember, m)
	}
	if data := c.PhotoData(); data != nil {
		gc.AddValue(govcard.FieldPhoto, "data:"+c.PhotoMediaType()+";base64,"+base64.StdEncoding.EncodeToString(data))
	} else if uri := c.PhotoURI(); uri != "" {
		f := &govcard.Field{Value: uri}
		if strings.HasPrefix(strings.ToLower(uri), "data:") {
			// Marks a reference so it is not decoded as inline data.
			f.Params = govcard.Params{govcard.ParamValue: {"uri"}}
		}
		gc.Add(govcard.FieldPhoto, f)
	}
	for _, name := range c.RawPropertyNames() {
		group, key, grouped := strings.Cut(name, ".")
		if !grouped {
			group, key = "", name
		}
		for _, value := range c.RawProperty(name) {
			gc.Add(key, &govcard.Field{Value: value, Group: group})
		}
	}
	return gc
}

func typeParams[T ~string](standard []T, custom []string) govcard.Params {
	if len(standard) == 0 && len(custom) == 0 {
		return nil
	}
	params := make(govcard.Params)
	for _, s := range standard {
		params.Add(govcard.ParamType, string(s))
	}
	for _, s := range custom {
		params.Add(govcard.ParamType, s)
	}
	return params
}

// FromGoVCard converts a map-model card. Routing, type classification and
// the strict/lenient policy are the same as for parsed text.
func FromGoVCard(gc govcard.Card, opts vcard.ReaderOptions) (*vcard.Card, error) {
	keys := make([]string, 0, len(gc))
	for k := range gc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		// VERSION sorts first.
		if vi, vj := strings.EqualFold(keys[i], govcard.FieldVersion), strings.EqualFold(keys[j], govcard.FieldVersion); vi != vj {
			return vi
		}
		return keys[i] < keys[j]
	})

	var props []vcard.Property
	for _, k := range keys {
		name := strings.ToUpper(k)
		for _, f := range gc[k] {
			if f == nil {
				continue
			}
			props = append(props, property(name, f))
		}
	}
	return vcard.FromProperties(props, opts)
}

func property(name string, f *govcard.Field) vcard.Property {
	p := vcard.Property{
		Group:  f.Group,
		Name:   name,
		Params: make(map[string]string, len(f.Params)),
		Value:  f.Value,
		Raw:    parser.Escape(f.Value),
	}
	if structured[name] {
		p.Raw = parser.JoinComponents(strings.Split(f.Value, ";"))
	}
	for k, values := range f.Params {
		p.Params[strings.ToUpper(k)] = strings.Join(values, ",")
	}
	return p
}

// Decode reads every card from r with the go-vcard decoder and converts it.
// Decoder errors end the input; conversion errors follow opts.
func Decode(r io.Reader, opts vcard.ReaderOptions) ([]*vcard.Card, error) {
	dec := govcard.NewDecoder(r)
	var cards []*vcard.Card
	var errs []error
	for {
		gc, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, err)
			break
		}
		c, err := FromGoVCard(gc, opts)
		if err != nil {
			errs = append(errs, err)
			if opts.FailFast {
				break
			}
			continue
		}
		cards = append(cards, c)
	}
	return cards, errors.Join(errs...)
}

// Encode writes cards with the go-vcard encoder.
func Encode(w io.Writer, cards []*vcard.Card) error {
	enc := govcard.NewEncoder(w)
	for _, c := range cards {
		if err := enc.Encode(ToGoVCard(c)); err != nil {
			return err
		}
	}
	return nil
}
