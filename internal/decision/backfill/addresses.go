// Package backfill resolves the profile's current addresses from the
// documents on file.
package backfill

import (
	"kycengine/internal/decision/poa"
	"kycengine/internal/domain"
)

// Addresses returns a copy of p with missing current addresses filled in.
// p itself is never modified.
//
// Fiscal comes from the constancia, founding from the deed, and
// operational from the accepted proof of address, falling back to fiscal.
func Addresses(p *domain.Profile, entityType domain.EntityType, demoMode bool) *domain.Profile {
	out := p.Clone()
	if out == nil {
		return &domain.Profile{}
	}

	if out.CurrentFiscalAddress.IsZero() && out.CompanyTaxProfile != nil && !out.CompanyTaxProfile.FiscalAddress.IsZero() {
		out.CurrentFiscalAddress = out.CompanyTaxProfile.FiscalAddress.Clone()
	}
	if out.FoundingAddress.IsZero() && out.CompanyIdentity != nil && !out.CompanyIdentity.FoundingAddress.IsZero() {
		out.FoundingAddress = out.CompanyIdentity.FoundingAddress.Clone()
	}
	if out.CurrentOperationalAddress.IsZero() {
		res := poa.Validate(poa.FromProfile(out, entityType, demoMode))
		switch {
		case res.Acceptable && !res.Address.IsZero():
			out.CurrentOperationalAddress = res.Address.Clone()
		case !out.CurrentFiscalAddress.IsZero():
			out.CurrentOperationalAddress = out.CurrentFiscalAddress.Clone()
		}
	}
	return out
}
