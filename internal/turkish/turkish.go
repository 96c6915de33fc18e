// Package turkish provides locale-aware text helpers for Turkish words.
//
// Turkish has two distinct letter pairs that ASCII casing mangles: dotted
// i/İ and dotless ı/I. Answer comparison and username normalization must
// both go through these helpers, never strings.ToUpper.
package turkish

import (
	"strings"
	"unicode"
)

// Upper converts s to uppercase using Turkish casing rules
// (i → İ, ı → I).
func Upper(s string) string {
	return strings.ToUpperSpecial(unicode.TurkishCase, s)
}

// Normalize trims surrounding whitespace and uppercases with Turkish rules.
// Used for answer comparison and username canonicalization.
func Normalize(s string) string {
	return Upper(strings.TrimSpace(s))
}

// Equal reports whether two strings are equal after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
