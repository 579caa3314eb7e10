package entity

import (
	"strings"

	"kycengine/internal/domain"
	kstrings "kycengine/pkg/platform/strings"
)

// Long corporate-form phrases rewritten to the initials their abbreviated
// spellings normalize to, so every variant compacts to the same suffix.
// Longer phrases come first.
var corporateFormReplacer = strings.NewReplacer(
	"SOCIEDAD ANONIMA PROMOTORA DE INVERSION", "S A P I",
	"SOCIEDAD ANONIMA BURSATIL", "S A B",
	"SOCIEDAD DE RESPONSABILIDAD LIMITADA", "S DE R L",
	"SOCIEDAD POR ACCIONES SIMPLIFICADA", "S A S",
	"SOCIEDAD ANONIMA", "S A",
	"SOCIEDAD CIVIL", "S C",
	"ASOCIACION CIVIL", "A C",
	"DE CAPITAL VARIABLE", "DE C V",
)

// CanonicalCompanyName normalizes a company name and folds its corporate
// suffix into one token. "Grupo Alfa, Sociedad Anónima de Capital Variable"
// and "GRUPO ALFA S.A. DE C.V." both become "GRUPOALFASADECV".
func CanonicalCompanyName(name string) string {
	n := " " + kstrings.NormalizeName(name) + " "
	n = corporateFormReplacer.Replace(n)
	return strings.ReplaceAll(n, " ", "")
}

// CompanyNamesMatch compares two company names. A name that is a prefix of
// the other is accepted, since extracted names are often truncated.
func CompanyNamesMatch(a, b string) bool {
	ca, cb := CanonicalCompanyName(a), CanonicalCompanyName(b)
	if ca == "" || cb == "" {
		return false
	}
	return ca == cb || strings.HasPrefix(ca, cb) || strings.HasPrefix(cb, ca)
}

// IsSociedadCivil reports whether the company name carries a civil-society
// form (S.C. or A.C.), which is not registered in the Registro Público de
// Comercio.
func IsSociedadCivil(name string) bool {
	tokens := strings.Fields(corporateFormReplacer.Replace(" " + kstrings.NormalizeName(name) + " "))
	n := len(tokens)
	if n == 0 {
		return false
	}
	last := tokens[n-1]
	if last == "SC" || last == "AC" {
		return true
	}
	return n >= 2 && tokens[n-1] == "C" && (tokens[n-2] == "S" || tokens[n-2] == "A")
}

// Coherence is the outcome of comparing the deed with the tax registration.
type Coherence struct {
	Coherent bool
	// NameMatch and RFCMatch are true when the check was skipped for lack of data.
	NameMatch bool
	RFCMatch  bool
	// PersonalTaxRecord is set when the tax record on file belongs to an
	// individual. That is a wrong-document condition, not a mismatch.
	PersonalTaxRecord bool
	DeedName          string
	TaxName           string
	DeedRFC           string
	TaxRFC            string
}

// CheckCoherence compares the company identity against the tax profile.
// Either side missing yields a coherent result.
func CheckCoherence(deed *domain.CompanyIdentity, tax *domain.CompanyTaxProfile) Coherence {
	c := Coherence{Coherent: true, NameMatch: true, RFCMatch: true}
	if deed == nil || tax == nil {
		return c
	}
	c.DeedName, c.TaxName = deed.RazonSocial, tax.Name
	c.DeedRFC, c.TaxRFC = NormalizeRFC(deed.RFC), NormalizeRFC(tax.RFC)

	if IsPersonalRFC(c.TaxRFC) {
		c.PersonalTaxRecord = true
		return c
	}

	if c.DeedRFC != "" && c.TaxRFC != "" {
		c.RFCMatch = c.DeedRFC == c.TaxRFC
	}
	if strings.TrimSpace(c.DeedName) != "" && strings.TrimSpace(c.TaxName) != "" {
		c.NameMatch = CompanyNamesMatch(c.DeedName, c.TaxName)
	}
	c.Coherent = c.NameMatch && c.RFCMatch
	return c
}
