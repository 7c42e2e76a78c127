// Package textfold provides locale-independent character folding for
// outbound search queries. This is part of the platform layer and contains
// no business logic.
package textfold

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips combining diacritical marks from s, folding letters like
// "ș", "ț" or "ă" to their base Latin forms. The provider's recall improves
// on folded input while the user-visible text keeps its diacritics.
//
// A transform chain is built per call: chained transformers carry state and
// are not safe for concurrent reuse.
func Fold(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		return s
	}
	return folded
}
