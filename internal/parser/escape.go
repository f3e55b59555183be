package parser

import "strings"

// Unescape decodes the value escapes: \\ to \, \, to a comma, \; to a
// semicolon and \n to a newline. Any other backslash sequence, and a trailing
// lone backslash, are kept literally.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case '\\':
			sb.WriteByte('\\')
		case ',':
			sb.WriteByte(',')
		case ';':
			sb.WriteByte(';')
		case 'n':
			sb.WriteByte('\n')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i+1])
		}
		i++
	}
	return sb.String()
}

// Escape is the inverse of Unescape. It escapes backslash, comma, semicolon
// and newline and leaves every other character alone.
func Escape(s string) string {
	if !strings.ContainsAny(s, "\\,;\n") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case ',':
			sb.WriteString(`\,`)
		case ';':
			sb.WriteString(`\;`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// SplitComponents splits a raw structured value at every unescaped ';' and
// unescapes each component.
func SplitComponents(raw string) []string {
	parts := make([]string, 0, 7)
	start := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case ';':
			parts = append(parts, Unescape(raw[start:i]))
			start = i + 1
		}
	}
	return append(parts, Unescape(raw[start:]))
}

// JoinComponents escapes every component and joins them with ';'.
func JoinComponents(components []string) string {
	escaped := make([]string, len(components))
	for i, c := range components {
		escaped[i] = Escape(c)
	}
	return strings.Join(escaped, ";")
}
