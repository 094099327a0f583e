// Package matching decides whether a raw submission name belongs to a student.
package matching

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combining diacritical marks block, U+0300..U+036F
var diacritic = runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036f
})

// foldAccents decomposes s and drops the combining marks, so "é" becomes "e".
// The chain carries buffers, so a fresh one is built for every call.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(diacritic), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize lower-cases text, folds accents, turns everything outside
// [a-z0-9] into spaces and collapses the spaces. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = strings.ReplaceAll(s, "ñ", "n")
	s = foldAccents(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens splits normalized text on spaces. Empty input gives no tokens.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}
