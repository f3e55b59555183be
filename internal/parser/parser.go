// Package parser implements LL(1) recursive descent parsing of a single
// logical vCard property line. Each production rule of the grammar below
// corresponds to a parse function.
//
//	Line       = Name { ";" Param } ":" Value ;
//	Name       = [ Group "." ] Identifier ;
//	Param      = ParamName [ "=" ParamValue ] ;
//	ParamValue = { Text | Escape | "=" | Quoted } ;
//	Quoted     = '"' { any token except '"' } '"' ;
//	Value      = { any token } ;
package parser

import (
	"errors"
	"fmt"
	"strings"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-vcard/internal/tokenizer"
)

// ErrMalformed is the category of every syntax error reported by this package.
var ErrMalformed = errors.New("malformed vcard")

var (
	// ErrMissingSeparator is returned when a line has no unescaped ':'.
	ErrMissingSeparator = fmt.Errorf("%w: line is missing ':' separator", ErrMalformed)
	// ErrMissingName is returned when the key segment is empty.
	ErrMissingName = fmt.Errorf("%w: missing property name", ErrMalformed)
	// ErrBadParameter is returned for an empty parameter name or an unterminated quoted value.
	ErrBadParameter = fmt.Errorf("%w: unparseable parameter", ErrMalformed)
)

// encodingValues are bare vCard 2.1 parameters that name an encoding.
var encodingValues = map[string]bool{
	"BASE64":           true,
	"B":                true,
	"QUOTED-PRINTABLE": true,
	"8BIT":             true,
	"7BIT":             true,
}

// Property is one parsed property line.
type Property struct {
	// Group is the optional "group." prefix, as written.
	Group string
	// Name is the upper-cased property name without the group.
	Name string
	// Params maps upper-cased parameter names to their unquoted values.
	// A repeated parameter keeps its last value.
	Params map[string]string
	// Value is the unescaped value segment.
	Value string
	// Raw is the value segment as written.
	Raw string
	// Line is the number of the physical line the property started on.
	// ParseLine leaves it zero.
	Line int
}

// Param returns the value of the named parameter. The lookup is case-insensitive.
func (p Property) Param(name string) (string, bool) {
	v, ok := p.Params[strings.ToUpper(name)]
	return v, ok
}

// Key returns the upper-cased property name including its group prefix.
func (p Property) Key() string {
	if p.Group == "" {
		return p.Name
	}
	return strings.ToUpper(p.Group) + "." + p.Name
}

// Components splits the value at unescaped semicolons and unescapes each part.
// Trailing components that were never written are not returned.
func (p Property) Components() []string {
	return SplitComponents(p.Raw)
}

// Parser implements LL(1) recursive descent parsing for one property line.
// It maintains a single token lookahead for predictive parsing.
type Parser struct {
	tokenizer *shapetokenizer.Tokenizer
	current   *shapetokenizer.Token
	hasToken  bool
}

// NewParser creates a parser for one logical line.
func NewParser(line string) *Parser {
	tok := tokenizer.NewTokenizerForLine(line)
	p := &Parser{tokenizer: &tok}
	p.advance() // Load first token
	return p
}

// ParseLine parses one logical line into a Property.
func ParseLine(line string) (Property, error) {
	return NewParser(line).Parse()
}

// Parse parses the whole line.
//
// Grammar:
//
//	Line = Name { ";" Param } ":" Value ;
func (p *Parser) Parse() (Property, error) {
	key := p.parseName()

	params := make(map[string]string)
	for p.peekKind() == tokenizer.TokenSemicolon {
		p.advance() // consume ';'
		if err := p.parseParam(params); err != nil {
			return Property{}, err
		}
	}

	if err := p.expect(tokenizer.TokenColon); err != nil {
		return Property{}, err
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return Property{}, ErrMissingName
	}

	prop := Property{Params: params}
	if group, name, ok := strings.Cut(key, "."); ok && group != "" && name != "" {
		prop.Group = group
		key = name
	}
	prop.Name = strings.ToUpper(key)
	prop.Raw = p.parseValue()
	prop.Value = Unescape(prop.Raw)
	return prop, nil
}

// parseName reads the property name up to the first ';' or ':'.
//
// Grammar:
//
//	Name = { Text | Escape | "=" | '"' } ;
func (p *Parser) parseName() string {
	var sb strings.Builder
	for p.hasToken {
		kind := p.peekKind()
		if kind == tokenizer.TokenSemicolon || kind == tokenizer.TokenColon {
			break
		}
		sb.WriteString(p.current.ValueString())
		p.advance()
	}
	return sb.String()
}

// parseParam parses one parameter and stores it in params.
//
// Grammar:
//
//	Param = ParamName [ "=" ParamValue ] ;
//
// A parameter without "=" is a vCard 2.1 bare value. Encoding names are
// stored as ENCODING; everything else is appended to TYPE.
func (p *Parser) parseParam(params map[string]string) error {
	var name strings.Builder
	for p.hasToken {
		kind := p.peekKind()
		if kind != tokenizer.TokenText && kind != tokenizer.TokenEscape {
			break
		}
		name.WriteString(p.current.ValueString())
		p.advance()
	}
	key := strings.ToUpper(strings.TrimSpace(name.String()))

	if p.peekKind() != tokenizer.TokenEquals {
		switch {
		case key == "":
			// Empty segment such as "TEL;;TYPE=HOME" or "TEL;:".
			if p.peekKind() == tokenizer.TokenDQuote {
				return fmt.Errorf("%w: quoted value without a name", ErrBadParameter)
			}
		case encodingValues[key]:
			params["ENCODING"] = key
		default:
			if prev := params["TYPE"]; prev != "" {
				key = prev + "," + key
			}
			params["TYPE"] = key
		}
		return nil
	}

	if key == "" {
		return fmt.Errorf("%w: empty parameter name", ErrBadParameter)
	}
	p.advance() // consume '='

	value, err := p.parseParamValue()
	if err != nil {
		return fmt.Errorf("%w: parameter %s", err, key)
	}
	if prev := params[key]; prev != "" && key == "TYPE" {
		value = prev + "," + value
	}
	params[key] = value
	return nil
}

// parseParamValue reads a parameter value. Double-quoted sections are
// unquoted and may contain ':' and ';'.
//
// Grammar:
//
//	ParamValue = { Text | Escape | "=" | Quoted } ;
//	Quoted     = '"' { any token except '"' } '"' ;
func (p *Parser) parseParamValue() (string, error) {
	var sb strings.Builder
	for p.hasToken {
		switch p.peekKind() {
		case tokenizer.TokenSemicolon, tokenizer.TokenColon:
			return sb.String(), nil
		case tokenizer.TokenDQuote:
			if err := p.parseQuoted(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteString(p.current.ValueString())
			p.advance()
		}
	}
	return sb.String(), nil
}

func (p *Parser) parseQuoted(sb *strings.Builder) error {
	p.advance() // consume opening quote
	for p.hasToken {
		if p.peekKind() == tokenizer.TokenDQuote {
			p.advance() // consume closing quote
			return nil
		}
		sb.WriteString(p.current.ValueString())
		p.advance()
	}
	return fmt.Errorf("%w: unterminated quoted value", ErrBadParameter)
}

// parseValue returns the rest of the line as written.
//
// Grammar:
//
//	Value = { any token } ;
func (p *Parser) parseValue() string {
	var sb strings.Builder
	for p.hasToken {
		sb.WriteString(p.current.ValueString())
		p.advance()
	}
	return sb.String()
}

// Helper methods

// peekKind returns the kind of the current token, or "" at end of line.
func (p *Parser) peekKind() string {
	if !p.hasToken || p.current == nil {
		return ""
	}
	return p.current.Kind()
}

// advance moves to next token.
func (p *Parser) advance() {
	token, ok := p.tokenizer.NextToken()
	if ok {
		p.current = token
		p.hasToken = true
	} else {
		p.hasToken = false
		p.current = nil
	}
}

// expect consumes a token of the expected kind or returns an error.
func (p *Parser) expect(kind string) error {
	if !p.hasToken {
		if kind == tokenizer.TokenColon {
			return ErrMissingSeparator
		}
		return fmt.Errorf("%w: expected %s at end of line", ErrMalformed, kind)
	}
	if p.peekKind() != kind {
		return fmt.Errorf("%w: expected %s at column %d, got %q",
			ErrBadParameter, kind, p.current.Column(), p.current.ValueString())
	}
	p.advance()
	return nil
}
