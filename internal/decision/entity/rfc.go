package entity

import (
	"regexp"
	"strings"
)

var (
	corporateRFC = regexp.MustCompile(`^[A-ZÑ&]{3}[0-9]{6}[A-Z0-9]{3}$`)
	personalRFC  = regexp.MustCompile(`^[A-ZÑ&]{4}[0-9]{6}[A-Z0-9]{3}$`)
)

// NormalizeRFC upper-cases the RFC and removes spaces and hyphens.
func NormalizeRFC(rfc string) string {
	r := strings.ToUpper(strings.TrimSpace(rfc))
	return strings.NewReplacer(" ", "", "-", "", ".", "").Replace(r)
}

// IsCorporateRFC reports whether rfc has the 3-letter prefix of a persona moral.
func IsCorporateRFC(rfc string) bool {
	return corporateRFC.MatchString(NormalizeRFC(rfc))
}

// IsPersonalRFC reports whether rfc has the 4-letter prefix of a persona física.
func IsPersonalRFC(rfc string) bool {
	return personalRFC.MatchString(NormalizeRFC(rfc))
}
