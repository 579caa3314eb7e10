package strings

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldAccents removes diacritics, so "Álvaro Peña" becomes "Alvaro Pena".
// Case is preserved.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName upper-cases, folds accents, replaces punctuation with spaces
// and collapses whitespace.
//
// Example:
//
//	NormalizeName("  Comercializadora  Núñez, S.A. ")
//	// Returns: "COMERCIALIZADORA NUNEZ S A"
func NormalizeName(s string) string {
	folded := strings.ToUpper(FoldAccents(s))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens splits a normalized name into words.
func Tokens(s string) []string {
	return strings.Fields(NormalizeName(s))
}

// TokenOverlap returns the number of shared tokens divided by the size of the
// smaller token set. Single-character tokens are ignored on both sides.
// Returns 0 when either side has no usable tokens.
func TokenOverlap(a, b []string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	matches := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			matches++
		}
	}
	return float64(matches) / float64(min(len(setA), len(setB)))
}

// NamesMatch reports whether two person or company names refer to the same
// party: equal after normalization, or token overlap above threshold.
func NamesMatch(a, b string, threshold float64) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	return TokenOverlap(strings.Fields(na), strings.Fields(nb)) > threshold
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if len([]rune(t)) <= 1 {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}
