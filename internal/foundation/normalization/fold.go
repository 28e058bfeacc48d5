package normalization

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// FoldKey returns the case-folded form of s, suitable as a
// case-insensitive map key.
func FoldKey(s string) string {
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(s)
}

// CompareFold orders a and b case-insensitively. Strings that differ only
// in case compare equal.
func CompareFold(a, b string) int {
	return strings.Compare(FoldKey(a), FoldKey(b))
}

// SortFold sorts items by the case-folded key returned by key. The sort is
// stable, so items with equal folded keys keep their input order.
func SortFold[T any](items []T, key func(T) string) {
	folded := make(map[string]string, len(items))
	fold := func(s string) string {
		if f, ok := folded[s]; ok {
			return f
		}
		f := FoldKey(s)
		folded[s] = f
		return f
	}
	slices.SortStableFunc(items, func(a, b T) int {
		return strings.Compare(fold(key(a)), fold(key(b)))
	})
}
