// Package address canonicalizes Mexican address fragments and scores how
// likely two addresses are to be the same place.
package address

import (
	"regexp"
	"strings"

	"kycengine/internal/domain"
	kstrings "kycengine/pkg/platform/strings"
)

// Canonical tokens for the two states with many spellings.
const (
	StateCDMX   = "CDMX"
	StateEdoMex = "EDOMEX"
)

var stateAliases = map[string]string{
	"CDMX":               StateCDMX,
	"CIUDADDEMEXICO":     StateCDMX,
	"CDDEMEXICO":         StateCDMX,
	"CDMEXICO":           StateCDMX,
	"DISTRITOFEDERAL":    StateCDMX,
	"DF":                 StateCDMX,
	"MEXICODF":           StateCDMX,
	"CIUDADDEMEXICOCDMX": StateCDMX,
	"ESTADODEMEXICO":     StateEdoMex,
	"EDODEMEXICO":        StateEdoMex,
	"EDODEMEX":           StateEdoMex,
	"EDOMEX":             StateEdoMex,
	"EDOMEXICO":          StateEdoMex,
	"ESTADOMEXICO":       StateEdoMex,
	"MEXICO":             StateEdoMex,
	"EM":                 StateEdoMex,
	"MEX":                StateEdoMex,
}

var streetPrefixes = map[string]struct{}{
	"CALLE": {}, "C": {}, "AVENIDA": {}, "AV": {}, "AVE": {}, "PRIVADA": {}, "PRIV": {},
	"CALZADA": {}, "CALZ": {}, "BOULEVARD": {}, "BLVD": {}, "BLVR": {}, "CERRADA": {},
	"CDA": {}, "ANDADOR": {}, "CARRETERA": {}, "CARR": {}, "PROLONGACION": {}, "PROL": {},
	"CIRCUITO": {}, "CTO": {}, "RETORNO": {}, "PASEO": {},
}

var coloniaPrefixes = map[string]struct{}{
	"COL": {}, "COLONIA": {}, "FRACC": {}, "FRACCIONAMIENTO": {}, "BARRIO": {},
}

var municipioPrefixes = map[string]struct{}{
	"DELEGACION": {}, "DEL": {}, "ALCALDIA": {}, "MUNICIPIO": {}, "MPIO": {}, "MUN": {},
}

var numberPrefixes = map[string]struct{}{
	"NO": {}, "NUM": {}, "NUMERO": {}, "EXT": {}, "INT": {},
}

var (
	manzanaRe = regexp.MustCompile(`\b(?:MZA|MZ|MANZANA)\s*([A-Z0-9]+)`)
	loteRe    = regexp.MustCompile(`\b(?:LTE|LT|LOTE)\s*([A-Z0-9]+)`)
)

// Normalized is an address reduced to comparable tokens.
type Normalized struct {
	Street       string
	Number       string
	Colonia      string
	Municipio    string
	Estado       string
	CodigoPostal string
}

// Normalize canonicalizes every component of a. A nil address yields the
// zero value.
func Normalize(a *domain.Address) Normalized {
	if a == nil {
		return Normalized{}
	}
	return Normalized{
		Street:       NormalizeStreet(a.Street),
		Number:       NormalizeNumber(a.ExteriorNumber, a.InteriorNumber),
		Colonia:      stripPrefixes(kstrings.NormalizeName(a.Colonia), coloniaPrefixes),
		Municipio:    stripPrefixes(kstrings.NormalizeName(a.Municipio), municipioPrefixes),
		Estado:       NormalizeState(a.Estado),
		CodigoPostal: digits(a.CodigoPostal),
	}
}

// NormalizeState collapses the spellings of Mexico City and the State of
// Mexico into StateCDMX and StateEdoMex. Other states are returned upper-cased
// without accents or punctuation.
func NormalizeState(s string) string {
	name := kstrings.NormalizeName(s)
	if canon, ok := stateAliases[strings.ReplaceAll(name, " ", "")]; ok {
		return canon
	}
	return name
}

// NormalizeStreet drops leading street-type words such as "Calle" or "Av.".
func NormalizeStreet(s string) string {
	return stripPrefixes(kstrings.NormalizeName(s), streetPrefixes)
}

// NormalizeNumber returns a comparable key for the exterior and interior
// numbers. When either carries a manzana/lote pair the key is "MZ<m>LT<l>";
// otherwise it is the exterior number without "No."/"#" markers.
func NormalizeNumber(exterior, interior string) string {
	if key := blockLotKey(exterior); key != "" {
		return key
	}
	if key := blockLotKey(interior); key != "" {
		return key
	}
	ext := stripPrefixes(kstrings.NormalizeName(exterior), numberPrefixes)
	return strings.ReplaceAll(ext, " ", "")
}

func blockLotKey(s string) string {
	n := kstrings.NormalizeName(s)
	mz := manzanaRe.FindStringSubmatch(n)
	lt := loteRe.FindStringSubmatch(n)
	if mz == nil && lt == nil {
		return ""
	}
	var b strings.Builder
	if mz != nil {
		b.WriteString("MZ" + mz[1])
	}
	if lt != nil {
		b.WriteString("LT" + lt[1])
	}
	return b.String()
}

func stripPrefixes(normalized string, prefixes map[string]struct{}) string {
	tokens := strings.Fields(normalized)
	for len(tokens) > 1 {
		if _, ok := prefixes[tokens[0]]; !ok {
			break
		}
		tokens = tokens[1:]
	}
	return strings.Join(tokens, " ")
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
