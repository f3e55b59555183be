package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for a single logical vCard line.
// Matchers are tried in order of specificity:
// 1. Escape sequences (backslash plus one character)
// 2. Structural characters (colon, semicolon, equals, double quote)
// 3. Text runs (everything else)
//
// A lone backslash at the very end of the line is not an escape; it is
// returned as part of a Text token.
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		EscapeMatcher(),

		tokenizer.CharMatcherFunc(TokenColon, ':'),
		tokenizer.CharMatcherFunc(TokenSemicolon, ';'),
		tokenizer.CharMatcherFunc(TokenEquals, '='),
		tokenizer.CharMatcherFunc(TokenDQuote, '"'),

		TextMatcher(),
	)
}

// NewTokenizerForLine creates a tokenizer already initialized with line.
func NewTokenizerForLine(line string) tokenizer.Tokenizer {
	tok := NewTokenizer()
	tok.Initialize(line)
	return tok
}

// EscapeMatcher matches a backslash followed by any character.
//
// Grammar:
//
//	Escape = "\" Character ;
func EscapeMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.NextChar()
		if !ok || r != '\\' {
			return nil
		}
		next, ok := stream.NextChar()
		if !ok {
			return nil
		}
		return tokenizer.NewToken(TokenEscape, []rune{'\\', next})
	}
}

// TextMatcher matches a run of characters that are not structural.
//
// Grammar:
//
//	Text = Character+ ;
//	Character = <any character except ':', ';', '=', '"', or an escaping '\'> ;
//
// The tokenizer repositions the stream from the token value, so the matcher
// may read one character past a backslash to decide whether it escapes
// something.
func TextMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune

		for {
			r, ok := stream.NextChar()
			if !ok {
				break
			}
			if isStructural(r) {
				break
			}
			if r == '\\' {
				if _, more := stream.PeekChar(); more {
					break
				}
			}
			value = append(value, r)
		}

		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenText, value)
	}
}

func isStructural(r rune) bool {
	return r == ':' || r == ';' || r == '=' || r == '"'
}
