// Package trace derives the audit trail behind a decision: ownership math,
// address sources, signatory powers and document ages. It reads the same
// profile as the engine and never influences the score.
package trace

import (
	"fmt"
	"time"

	"kycengine/internal/decision/address"
	"kycengine/internal/decision/backfill"
	"kycengine/internal/decision/entity"
	"kycengine/internal/decision/freshness"
	"kycengine/internal/decision/poa"
	"kycengine/internal/decision/signatory"
	"kycengine/internal/decision/ubo"
	"kycengine/internal/domain"
	kstrings "kycengine/pkg/platform/strings"
)

// Config mirrors the engine configuration the trace depends on.
type Config struct {
	DemoMode bool
	Phrases  signatory.PhraseTable
}

// Builder derives TraceSections.
type Builder struct {
	cfg      Config
	resolver *signatory.Resolver
}

func NewBuilder(cfg Config) *Builder {
	if cfg.Phrases.IsZero() {
		cfg.Phrases = signatory.DefaultPhraseTable()
	}
	return &Builder{cfg: cfg, resolver: signatory.NewResolver(cfg.Phrases)}
}

// Build derives the trace for p as of asOf.
func (b *Builder) Build(p *domain.Profile, asOf time.Time) domain.TraceSection {
	if p == nil {
		p = &domain.Profile{}
	}
	entityType := entity.Classify(p)
	resolved := backfill.Addresses(p, entityType, b.cfg.DemoMode)

	return domain.TraceSection{
		UBOs:            ubos(resolved),
		AddressEvidence: addresses(resolved),
		Powers:          b.powers(resolved),
		Freshness:       b.freshness(resolved, entityType, asOf),
	}
}

func ubos(p *domain.Profile) []domain.UBOTrace {
	out := []domain.UBOTrace{}
	deed := p.CompanyIdentity
	if deed == nil {
		return out
	}
	sources := kstrings.DedupeAndTrim([]string{deed.SourceDocument})
	res := ubo.Resolve(deed.Shareholders)
	for _, h := range res.Holdings {
		out = append(out, domain.UBOTrace{
			Name:             h.Name,
			Shares:           h.Shares,
			OwnershipPercent: h.OwnershipPercent,
			VotingPercent:    h.VotingPercent,
			HasVotingRights:  h.HasVotingRights,
			VotingBasis:      string(h.VotingBasis),
			IsUBO:            h.IsUBO,
			Reason:           uboReason(h),
			Sources:          sources,
		})
	}
	return out
}

func uboReason(h ubo.Holding) string {
	switch {
	case !h.HasVotingRights && h.IsUBO:
		return "no voting rights; declared beneficial owner"
	case !h.HasVotingRights:
		return fmt.Sprintf("no voting rights (%s)", h.VotingBasis)
	case h.UBOReason == ubo.ReasonDeclaredOwner:
		return fmt.Sprintf("declared beneficial owner; voting %.2f%%", h.VotingPercent)
	case h.IsUBO:
		return fmt.Sprintf("voting %.2f%% exceeds %.0f%%", h.VotingPercent, ubo.Threshold)
	default:
		return fmt.Sprintf("voting %.2f%% does not exceed %.0f%%", h.VotingPercent, ubo.Threshold)
	}
}

type citedAddress struct {
	label string
	addr  *domain.Address
}

func addresses(p *domain.Profile) []domain.AddressTrace {
	var candidates []citedAddress
	if p.CompanyIdentity != nil {
		candidates = append(candidates, citedAddress{cite(p.CompanyIdentity.SourceDocument, "acta constitutiva"), p.CompanyIdentity.FoundingAddress})
	}
	if p.CompanyTaxProfile != nil {
		candidates = append(candidates, citedAddress{cite(p.CompanyTaxProfile.SourceDocument, "constancia de situación fiscal"), p.CompanyTaxProfile.FiscalAddress})
	}
	for _, bill := range p.AddressEvidence {
		candidates = append(candidates, citedAddress{cite(bill.SourceDocument, "utility bill issued to "+bill.HolderName), bill.Address})
	}
	for _, acct := range p.BankAccounts {
		candidates = append(candidates, citedAddress{cite(acct.SourceDocument, "bank statement"), acct.Address})
	}

	roles := []struct {
		role domain.AddressRole
		addr *domain.Address
	}{
		{domain.AddressRoleFounding, p.FoundingAddress},
		{domain.AddressRoleFiscal, p.CurrentFiscalAddress},
		{domain.AddressRoleOperational, p.CurrentOperationalAddress},
	}

	out := []domain.AddressTrace{}
	for _, r := range roles {
		if r.addr.IsZero() {
			continue
		}
		entry := domain.AddressTrace{Role: r.role, Address: r.addr.String()}
		for _, c := range candidates {
			if c.addr.IsZero() {
				continue
			}
			cmp := address.CompareAddresses(r.addr, c.addr)
			if cmp.Equivalent {
				entry.Citations = append(entry.Citations, fmt.Sprintf("%s: %s (confidence %.2f)", c.label, c.addr.String(), cmp.Confidence))
			}
		}
		out = append(out, entry)
	}
	return out
}

func cite(doc, kind string) string {
	if doc == "" {
		return kind
	}
	return fmt.Sprintf("%s (%s)", doc, kind)
}

func (b *Builder) powers(p *domain.Profile) []domain.PowerTrace {
	out := []domain.PowerTrace{}
	for _, a := range b.resolver.Resolve(signatory.Collect(p)) {
		out = append(out, domain.PowerTrace{
			Name:        a.Name,
			Role:        a.Role,
			Scope:       string(a.Scope),
			Matched:     powerNames(a.Matched),
			Missing:     powerNames(a.Missing),
			Limitations: a.Limitations,
			Sources:     a.Sources,
		})
	}
	return out
}

func powerNames(ps []signatory.Power) []string {
	if len(ps) == 0 {
		return nil
	}
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

func (b *Builder) freshness(p *domain.Profile, entityType domain.EntityType, asOf time.Time) []domain.FreshnessTrace {
	var checks []freshness.Check

	if res := poa.Validate(poa.FromProfile(p, entityType, b.cfg.DemoMode)); res.Source != poa.SourceNone {
		checks = append(checks, freshness.Check{
			Name:       "proof_of_address",
			Documents:  res.Documents,
			Date:       res.DocumentDate,
			MaxAgeDays: freshness.ProofOfAddressMaxAgeDays,
		})
	}
	if tax := p.CompanyTaxProfile; tax != nil {
		checks = append(checks, freshness.Check{
			Name:       "constancia_fiscal",
			Documents:  kstrings.DedupeAndTrim([]string{tax.SourceDocument}),
			Date:       tax.IssueDate,
			MaxAgeDays: freshness.TaxCertificateMaxAgeDays,
		})
	}
	for _, acct := range p.BankAccounts {
		checks = append(checks, freshness.Check{
			Name:       "bank_statement",
			Documents:  kstrings.DedupeAndTrim([]string{acct.SourceDocument}),
			Date:       acct.StatementDate,
			MaxAgeDays: freshness.BankStatementMaxAgeDays,
		})
	}

	out := make([]domain.FreshnessTrace, 0, len(checks))
	for _, c := range checks {
		r := freshness.Evaluate(c, asOf)
		entry := domain.FreshnessTrace{
			Check:      r.Check,
			Documents:  r.Documents,
			MaxAgeDays: r.MaxAgeDays,
			Fresh:      r.Fresh,
		}
		if r.Known {
			age := r.AgeDays
			entry.AgeDays = &age
		}
		out = append(out, entry)
	}
	return out
}
