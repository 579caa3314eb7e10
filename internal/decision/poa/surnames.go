package poa

import (
	"slices"
	"strings"

	kstrings "kycengine/pkg/platform/strings"
)

var surnameParticles = map[string]struct{}{
	"DE": {}, "DEL": {}, "LA": {}, "LAS": {}, "LOS": {}, "Y": {}, "SAN": {}, "SANTA": {}, "VAN": {}, "VON": {},
}

// Surnames extracts the paternal and maternal surnames from a Mexican full
// name written given-names first. Compound surnames keep their particles
// ("DE LA CRUZ") and their final word is also returned on its own.
func Surnames(fullName string) []string {
	tokens := kstrings.Tokens(fullName)
	if len(tokens) < 2 {
		return nil
	}

	var out []string
	end := len(tokens)
	for range 2 {
		// Keep at least one given name.
		if end < 2 {
			break
		}
		start := end - 1
		for start > 1 && isParticle(tokens[start-1]) {
			start--
		}
		compound := strings.Join(tokens[start:end], " ")
		out = appendSurname(out, compound)
		out = appendSurname(out, tokens[end-1])
		end = start
		if len(tokens) == 2 {
			break
		}
	}
	return out
}

// ShareSurname reports whether two people have a surname in common.
func ShareSurname(a, b string) bool {
	sa, sb := Surnames(a), Surnames(b)
	for _, s := range sa {
		if slices.Contains(sb, s) {
			return true
		}
	}
	return false
}

func isParticle(tok string) bool {
	_, ok := surnameParticles[tok]
	return ok
}

func appendSurname(list []string, s string) []string {
	if s == "" || isParticle(s) || slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
