// Package typeset partitions TYPE parameter tokens into members of a closed
// enumeration and free-form custom tokens.
package typeset

import (
	"strings"
)

// SplitTokens splits a comma-separated TYPE value into trimmed, non-empty tokens.
func SplitTokens(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	tokens := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Classify splits tokens into standard members and custom strings.
//
// Matching is case-insensitive. The standard result follows the order of
// members and holds each member at most once. The custom result keeps the
// first spelling of each token in encounter order; later tokens that differ
// only in case are dropped. A token never lands in both results.
func Classify[T ~string](tokens []string, members []T) (standard []T, custom []string) {
	matched := make([]bool, len(members))
	for _, tok := range tokens {
		if i := index(members, tok); i >= 0 {
			matched[i] = true
			continue
		}
		if !containsFold(custom, tok) {
			custom = append(custom, tok)
		}
	}
	for i, m := range members {
		if matched[i] {
			standard = append(standard, m)
		}
	}
	return standard, custom
}

// Parse returns the member matching s case-insensitively.
func Parse[T ~string](s string, members []T) (T, bool) {
	if i := index(members, strings.TrimSpace(s)); i >= 0 {
		return members[i], true
	}
	var zero T
	return zero, false
}

// SplitAll applies SplitTokens to every element, so a caller-supplied
// "a,b" becomes two tokens as it would on the wire.
func SplitAll(values []string) []string {
	tokens := make([]string, 0, len(values))
	for _, v := range values {
		tokens = append(tokens, SplitTokens(v)...)
	}
	return tokens
}

// Normalize re-classifies an already split pair. It is used for values
// built in code, where a custom string may name a standard member.
func Normalize[T ~string](standard []T, custom []string, members []T) ([]T, []string) {
	tokens := make([]string, 0, len(standard)+len(custom))
	for _, s := range standard {
		tokens = append(tokens, string(s))
	}
	tokens = append(tokens, SplitAll(custom)...)
	return Classify(tokens, members)
}

// Join renders the standard names followed by the custom strings,
// comma-separated. It returns "" when both are empty.
func Join[T ~string](standard []T, custom []string) string {
	if len(standard) == 0 && len(custom) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, s := range standard {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(string(s))
	}
	for _, c := range custom {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(c)
	}
	return sb.String()
}

// ContainsFold reports whether set holds s, ignoring case.
func ContainsFold[T ~string](set []T, s string) bool {
	return index(set, s) >= 0
}

func index[T ~string](members []T, s string) int {
	for i, m := range members {
		if strings.EqualFold(string(m), s) {
			return i
		}
	}
	return -1
}

func containsFold(list []string, s string) bool {
	return index(list, s) >= 0
}
