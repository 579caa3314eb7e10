package decision

import (
	"math"
	"time"

	"kycengine/internal/decision/backfill"
	"kycengine/internal/decision/entity"
	"kycengine/internal/decision/signatory"
	"kycengine/internal/domain"
)

// Config is the read-only configuration of one evaluation.
type Config struct {
	// DemoMode matches bank accounts by their statement-header name.
	DemoMode bool
	// Phrases is the power-of-attorney phrase table. The zero value uses
	// the built-in table.
	Phrases signatory.PhraseTable
}

// Engine runs the KYC checks over a profile. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	cfg         Config
	signatories *signatory.Resolver
}

func NewEngine(cfg Config) *Engine {
	if cfg.Phrases.IsZero() {
		cfg.Phrases = signatory.DefaultPhraseTable()
	}
	return &Engine{cfg: cfg, signatories: signatory.NewResolver(cfg.Phrases)}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate scores p as of the reference date asOf. The result depends only
// on p, asOf and the engine configuration; GeneratedAt is set to asOf.
//
// Check order:
//  1. Classify the entity
//  2. Persona Moral: deed vs constancia coherence, terminating on mismatch
//  3. Backfill current addresses
//  4. Nationality
//  5. Identity document requirements
//  6. Identity document validity
//  7. Persona Moral: UBOs, equity, signatories, representative in deed
//  8. Fiscal vs operational postal code
//  9. Proof of address
//  10. Document coverage, including wrong SAT type
//  11. SAT status
//  12. Folio mercantil for sociedades mercantiles
//  13. Foreign shareholders and RNIE
//  14. Proof-of-address freshness
//  15. Verification checklist
func (e *Engine) Evaluate(p *domain.Profile, asOf time.Time) domain.ValidationResult {
	if p == nil {
		p = &domain.Profile{}
	}
	entityType := entity.Classify(p)
	result := domain.ValidationResult{
		CustomerID:  p.CustomerID,
		EntityType:  entityType,
		GeneratedAt: asOf,
	}

	if entityType == domain.EntityPersonaMoral {
		coherence := entity.CheckCoherence(p.CompanyIdentity, p.CompanyTaxProfile)
		if !coherence.Coherent {
			result.Score = 0
			result.Flags = []domain.ValidationFlag{entityMismatchFlag(p, coherence)}
			return result
		}
	}

	resolved := backfill.Addresses(p, entityType, e.cfg.DemoMode)
	ev := &evaluation{
		profile:    resolved,
		entityType: entityType,
		asOf:       asOf,
		cfg:        e.cfg,
		checklist:  newChecklist(),
	}
	ev.nationality = DetermineNationality(resolved)

	ev.checkIdentityRequirements()
	ev.checkIdentityDocuments()
	if entityType == domain.EntityPersonaMoral {
		ev.checkOwnership()
		ev.checkSignatories(e.signatories)
		ev.checkRepresentativeInDeed()
	}
	ev.checkZipConsistency()
	ev.checkProofOfAddress()
	ev.checkCoverage()
	ev.checkSATStatus()
	ev.checkFolioMercantil()
	ev.checkForeignOwnership()
	ev.checkProofOfAddressFreshness()
	ev.add(ev.checklist.flag(entityType, ev.nationality))

	result.Flags = ev.flags
	result.Score = score(ev.flags)
	return result
}

// evaluation accumulates the flags of one Evaluate call.
type evaluation struct {
	profile     *domain.Profile
	entityType  domain.EntityType
	nationality Nationality
	asOf        time.Time
	cfg         Config
	flags       []domain.ValidationFlag
	checklist   *checklist
	poa         poaState
}

func (ev *evaluation) add(flags ...domain.ValidationFlag) {
	ev.flags = append(ev.flags, flags...)
}

// score is 1 minus every flag penalty, floored at zero and rounded to four
// decimals.
func score(flags []domain.ValidationFlag) float64 {
	total := 0.0
	for _, f := range flags {
		total += f.Penalty
	}
	s := math.Max(0, 1-total)
	return math.Round(s*10000) / 10000
}
