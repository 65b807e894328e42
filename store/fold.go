package store

import "orbis/internal/textutil"

// foldContains reports whether haystack contains needle after accent and
// case folding. See textutil.Fold for the normalization rule.
func foldContains(haystack, needle string) bool {
	return textutil.FoldContains(haystack, needle)
}
