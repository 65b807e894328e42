// Package textutil provides text normalization shared by the store's
// fuzzy lookups and the action pipeline's dedup guard.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks after NFD decomposition, so
// "Corrida matinal" and "corrida mátinal" fold to the same key.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases, trims, and removes diacritics. Titles typed on a phone
// keyboard often lose their accents; lookups must not care.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// FoldContains reports whether haystack contains needle after folding.
func FoldContains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// FoldEqual reports whether two strings are equal after folding.
func FoldEqual(a, b string) bool {
	return Fold(a) == Fold(b)
}
