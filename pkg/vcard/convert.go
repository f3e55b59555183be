package vcard

import (
	"encoding/base64"
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"

	"github.com/shapestone/shape-vcard/internal/typeset"
)

// CardToNode converts a card to a shape-core AST.
//
// The card becomes an *ast.ObjectNode keyed by lower-case property name
// ("version", "fn", "n", "tel", ...). Lists are *ast.ArrayDataNode and
// scalar values are string *ast.LiteralNode. Absent properties are omitted.
// Unrecognized properties live under "raw" with their order under "rawOrder".
//
// Example:
//
//	node := vcard.CardToNode(card)
//	fmt.Println(ast.TreePrint(node))
func CardToNode(c *Card) ast.SchemaNode {
	props := make(map[string]ast.SchemaNode)
	if c.version.IsKnown() {
		props["version"] = lit(c.version.String())
	}
	if c.formattedName != "" {
		props["fn"] = lit(c.formattedName)
	}
	if c.hasName {
		props["n"] = object(map[string]ast.SchemaNode{
			"family":     lit(c.name.Family),
			"given":      lit(c.name.Given),
			"additional": lit(c.name.Additional),
			"prefix":     lit(c.name.Prefix),
			"suffix":     lit(c.name.Suffix),
		})
	}
	if c.kind != "" {
		props["kind"] = lit(string(c.kind))
	}
	if len(c.phones) > 0 {
		phones := make([]ast.SchemaNode, len(c.phones))
		for i, p := range c.phones {
			phones[i] = object(map[string]ast.SchemaNode{
				"number": lit(p.Number),
				"types":  list(mergedTypes(p.StandardTypes, p.CustomTypes)),
			})
		}
		props["tel"] = ast.NewArrayDataNode(phones, ast.ZeroPosition())
	}
	if len(c.emails) > 0 {
		emails := make([]ast.SchemaNode, len(c.emails))
		for i, e := range c.emails {
			emails[i] = object(map[string]ast.SchemaNode{
				"address": lit(e.Address),
				"types":   list(mergedTypes(e.StandardTypes, e.CustomTypes)),
			})
		}
		props["email"] = ast.NewArrayDataNode(emails, ast.ZeroPosition())
	}
	if len(c.addresses) > 0 {
		addrs := make([]ast.SchemaNode, len(c.addresses))
		for i, a := range c.addresses {
			addrs[i] = object(map[string]ast.SchemaNode{
				"components": list(a.components()),
				"types":      list(mergedTypes(a.StandardTypes, a.CustomTypes)),
			})
		}
		props["adr"] = ast.NewArrayDataNode(addrs, ast.ZeroPosition())
	}
	for key, v := range map[string]string{
		"org":   c.organization,
		"title": c.title,
		"bday":  c.birthday,
		"note":  c.note,
	} {
		if v != "" {
			props[key] = lit(v)
		}
	}
	if len(c.members) > 0 {
		props["member"] = list(c.members)
	}
	switch {
	case c.photoData != nil:
		props["photo"] = object(map[string]ast.SchemaNode{
			"data": lit(base64.StdEncoding.EncodeToString(c.photoData)),
		})
	case c.photoURI != "":
		props["photo"] = object(map[string]ast.SchemaNode{"uri": lit(c.photoURI)})
	}
	if len(c.rawNames) > 0 {
		raw := make(map[string]ast.SchemaNode, len(c.raw))
		for name, values := range c.raw {
			raw[name] = list(values)
		}
		props["raw"] = object(raw)
		props["rawOrder"] = list(c.rawNames)
	}
	return object(props)
}

// CardsToNode converts cards to an *ast.ArrayDataNode of card objects.
func CardsToNode(cards []*Card) ast.SchemaNode {
	elems := make([]ast.SchemaNode, len(cards))
	for i, c := range cards {
		elems[i] = CardToNode(c)
	}
	return ast.NewArrayDataNode(elems, ast.ZeroPosition())
}

// NodeToCard converts an AST produced by CardToNode back to a card.
// Type strings are re-classified, so hand-built trees may use any case.
func NodeToCard(node ast.SchemaNode) (*Card, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("vcard: card node must be an object, got %T", node)
	}
	d := newDraft()
	c := &d.card

	if s, ok, err := stringProp(obj, "version"); err != nil {
		return nil, err
	} else if ok {
		v, known := ParseVersion(s)
		if !known {
			return nil, fmt.Errorf("%w %q", ErrUnsupportedVersion, s)
		}
		c.version = v
	}
	for key, dst := range map[string]*string{
		"fn":    &c.formattedName,
		"org":   &c.organization,
		"title": &c.title,
		"bday":  &c.birthday,
		"note":  &c.note,
	} {
		s, _, err := stringProp(obj, key)
		if err != nil {
			return nil, err
		}
		*dst = s
	}
	if s, ok, err := stringProp(obj, "kind"); err != nil {
		return nil, err
	} else if ok {
		k, known := ParseKind(s)
		if !known {
			return nil, fmt.Errorf("vcard: unknown kind %q", s)
		}
		c.kind = k
	}
	if n, ok := obj.GetProperty("n"); ok {
		nobj, isObj := n.(*ast.ObjectNode)
		if !isObj {
			return nil, fmt.Errorf("vcard: n must be an object, got %T", n)
		}
		fields := [...]string{"family", "given", "additional", "prefix", "suffix"}
		parts := make([]string, len(fields))
		for i, f := range fields {
			s, _, err := stringProp(nobj, f)
			if err != nil {
				return nil, err
			}
			parts[i] = s
		}
		c.name, c.hasName = nameFromComponents(parts), true
	}

	err := eachObject(obj, "tel", func(o *ast.ObjectNode) error {
		number, _, err := stringProp(o, "number")
		if err != nil {
			return err
		}
		types, err := listProp(o, "types")
		if err != nil {
			return err
		}
		std, custom := typeset.Classify(types, phoneTypes)
		c.phones = append(c.phones, PhoneNumber{Number: number, StandardTypes: std, CustomTypes: custom})
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = eachObject(obj, "email", func(o *ast.ObjectNode) error {
		address, _, err := stringProp(o, "address")
		if err != nil {
			return err
		}
		types, err := listProp(o, "types")
		if err != nil {
			return err
		}
		std, custom := typeset.Classify(types, emailTypes)
		c.emails = append(c.emails, EmailAddress{Address: address, StandardTypes: std, CustomTypes: custom})
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = eachObject(obj, "adr", func(o *ast.ObjectNode) error {
		parts, err := listProp(o, "components")
		if err != nil {
			return err
		}
		types, err := listProp(o, "types")
		if err != nil {
			return err
		}
		std, custom := typeset.Classify(types, addressTypes)
		addr := PostalAddress{StandardTypes: std, CustomTypes: custom}
		addr.setComponents(parts)
		c.addresses = append(c.addresses, addr)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.members, err = listProp(obj, "member"); err != nil {
		return nil, err
	}
	if p, ok := obj.GetProperty("photo"); ok {
		pobj, isObj := p.(*ast.ObjectNode)
		if !isObj {
			return nil, fmt.Errorf("vcard: photo must be an object, got %T", p)
		}
		if data, ok, err := stringProp(pobj, "data"); err != nil {
			return nil, err
		} else if ok {
			if c.photoData, err = decodeBase64(data); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
			}
		} else if c.photoURI, _, err = stringProp(pobj, "uri"); err != nil {
			return nil, err
		}
	}

	order, err := listProp(obj, "rawOrder")
	if err != nil {
		return nil, err
	}
	if r, ok := obj.GetProperty("raw"); ok {
		robj, isObj := r.(*ast.ObjectNode)
		if !isObj {
			return nil, fmt.Errorf("vcard: raw must be an object, got %T", r)
		}
		for _, name := range order {
			values, err := listProp(robj, name)
			if err != nil {
				return nil, err
			}
			for _, v := range values {
				c.addRaw(name, v)
			}
		}
	}
	return d.build(), nil
}

// NodeToCards converts an array node produced by CardsToNode back to cards.
func NodeToCards(node ast.SchemaNode) ([]*Card, error) {
	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("vcard: cards node must be an array, got %T", node)
	}
	cards := make([]*Card, 0, arr.Len())
	for i, elem := range arr.Elements() {
		c, err := NodeToCard(elem)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func lit(s string) ast.SchemaNode {
	return ast.NewLiteralNode(s, ast.ZeroPosition())
}

func object(props map[string]ast.SchemaNode) *ast.ObjectNode {
	return ast.NewObjectNode(props, ast.ZeroPosition())
}

func list(values []string) ast.SchemaNode {
	elems := make([]ast.SchemaNode, len(values))
	for i, v := range values {
		elems[i] = lit(v)
	}
	return ast.NewArrayDataNode(elems, ast.ZeroPosition())
}

// stringProp reads an optional string literal.
func stringProp(obj *ast.ObjectNode, key string) (string, bool, error) {
	n, ok := obj.GetProperty(key)
	if !ok {
		return "", false, nil
	}
	l, isLit := n.(*ast.LiteralNode)
	if !isLit {
		return "", false, fmt.Errorf("vcard: %s must be a literal, got %T", key, n)
	}
	s, isString := l.Value().(string)
	if !isString {
		return "", false, fmt.Errorf("vcard: %s must be a string, got %T", key, l.Value())
	}
	return s, true, nil
}

// listProp reads an optional array of string literals.
func listProp(obj *ast.ObjectNode, key string) ([]string, error) {
	n, ok := obj.GetProperty(key)
	if !ok {
		return nil, nil
	}
	arr, isArr := n.(*ast.ArrayDataNode)
	if !isArr {
		return nil, fmt.Errorf("vcard: %s must be an array, got %T", key, n)
	}
	out := make([]string, 0, arr.Len())
	for i, elem := range arr.Elements() {
		l, isLit := elem.(*ast.LiteralNode)
		if !isLit {
			return nil, fmt.Errorf("vcard: %s[%d] must be a literal, got %T", key, i, elem)
		}
		s, isString := l.Value().(string)
		if !isString {
			return nil, fmt.Errorf("vcard: %s[%d] must be a string, got %T", key, i, l.Value())
		}
		out = append(out, s)
	}
	return out, nil
}

// eachObject calls fn for every object in the optional array under key.
func eachObject(obj *ast.ObjectNode, key string, fn func(*ast.ObjectNode) error) error {
	n, ok := obj.GetProperty(key)
	if !ok {
		return nil
	}
	arr, isArr := n.(*ast.ArrayDataNode)
	if !isArr {
		return fmt.Errorf("vcard: %s must be an array, got %T", key, n)
	}
	for i, elem := range arr.Elements() {
		o, isObj := elem.(*ast.ObjectNode)
		if !isObj {
			return fmt.Errorf("vcard: %s[%d] must be an object, got %T", key, i, elem)
		}
		if err := fn(o); err != nil {
			return err
		}
	}
	return nil
}
