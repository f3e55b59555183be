// Package tokenizer provides vCard property-line tokenization using Shape's tokenizer framework.
package tokenizer

// Token type constants for one logical vCard property line.
//
// The tokenizer only emits character-level tokens. The parser decides whether a
// separator is structural (inside the key segment) or literal (inside the value).
const (
	// Structural tokens
	TokenColon     = "Colon"     // : (key/value separator)
	TokenSemicolon = "Semicolon" // ; (parameter or component separator)
	TokenEquals    = "Equals"    // = (parameter name/value separator)
	TokenDQuote    = "DQuote"    // " (quoted parameter value)

	// Escape is a backslash together with the character it escapes.
	TokenEscape = "Escape"

	// Text is a run of any other characters.
	TokenText = "Text"
)
