// Package ubo computes ownership and voting percentages from the deed's cap
// table and identifies ultimate beneficial owners.
package ubo

import (
	"math"
	"slices"
	"strings"

	"kycengine/internal/domain"
	kstrings "kycengine/pkg/platform/strings"
)

// Threshold is the voting percentage above which a shareholder is a UBO.
const Threshold = 25.0

// VotingBasis records which rule decided a shareholder's voting rights.
type VotingBasis string

const (
	BasisExplicitFlag VotingBasis = "explicit_flag"
	BasisShareType    VotingBasis = "share_type"
	BasisShareSeries  VotingBasis = "share_series"
	BasisDefault      VotingBasis = "default"
)

// UBO reasons.
const (
	ReasonVotingAboveThreshold = "voting_above_threshold"
	ReasonDeclaredOwner        = "declared_beneficial_owner"
)

// Holding is the resolved position of one shareholder.
type Holding struct {
	Name             string
	Shares           float64
	OwnershipPercent float64
	StatedPercent    bool
	VotingPercent    float64
	HasVotingRights  bool
	VotingBasis      VotingBasis
	IsUBO            bool
	UBOReason        string
	Nationality      string
}

// Resolution is the full cap-table computation.
type Resolution struct {
	Holdings          []Holding
	TotalShares       float64
	TotalVotingShares float64
	// EquityTotal is the sum of stated-or-computed ownership percentages.
	EquityTotal float64
}

// UBOs returns the holdings flagged as beneficial owners, in cap-table order.
func (r Resolution) UBOs() []Holding {
	var out []Holding
	for _, h := range r.Holdings {
		if h.IsUBO {
			out = append(out, h)
		}
	}
	return out
}

var (
	nonVotingTypes = []string{"PREFERENTE", "SIN DERECHO A VOTO", "SIN VOTO", "VOTO LIMITADO"}
	votingTypes    = []string{"ORDINARIA", "COMUN"}
	seriesNoise    = []string{"SERIE", "SERIES", "CLASE", "ACCIONES", "ACCION"}
)

// VotingEligibility resolves whether a shareholder votes. Precedence:
// explicit flag, share type keyword, share series keyword, then true.
func VotingEligibility(sh domain.Shareholder) (bool, VotingBasis) {
	if sh.HasVotingRights != nil {
		return *sh.HasVotingRights, BasisExplicitFlag
	}
	if t := kstrings.NormalizeName(sh.ShareType); t != "" {
		for _, kw := range nonVotingTypes {
			if strings.Contains(t, kw) {
				return false, BasisShareType
			}
		}
		for _, kw := range votingTypes {
			if strings.Contains(t, kw) {
				return true, BasisShareType
			}
		}
	}
	if tokens := seriesTokens(sh.ShareSeries); len(tokens) > 0 {
		if slices.Contains(tokens, "B") || slices.Contains(tokens, "II") {
			return false, BasisShareSeries
		}
		if slices.Contains(tokens, "A") || slices.Contains(tokens, "I") {
			return true, BasisShareSeries
		}
	}
	return true, BasisDefault
}

func seriesTokens(series string) []string {
	var out []string
	for _, tok := range strings.Fields(kstrings.NormalizeName(series)) {
		if !slices.Contains(seriesNoise, tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Resolve computes every holding. It has no side effects, so calling it
// twice on the same input yields identical output.
func Resolve(shareholders []domain.Shareholder) Resolution {
	res := Resolution{Holdings: make([]Holding, 0, len(shareholders))}

	for _, sh := range shareholders {
		votes, basis := VotingEligibility(sh)
		res.TotalShares += sh.Shares
		if votes {
			res.TotalVotingShares += sh.Shares
		}
		res.Holdings = append(res.Holdings, Holding{
			Name:            sh.Name,
			Shares:          sh.Shares,
			HasVotingRights: votes,
			VotingBasis:     basis,
			Nationality:     sh.Nationality,
		})
	}

	var votingOwnership float64
	for i, sh := range shareholders {
		h := &res.Holdings[i]
		switch {
		case sh.Percentage != nil:
			h.OwnershipPercent = round(*sh.Percentage)
			h.StatedPercent = true
		case res.TotalShares > 0:
			h.OwnershipPercent = round(sh.Shares / res.TotalShares * 100)
		}
		res.EquityTotal += h.OwnershipPercent
		if h.HasVotingRights {
			votingOwnership += h.OwnershipPercent
		}
	}
	res.EquityTotal = round(res.EquityTotal)

	for i, sh := range shareholders {
		h := &res.Holdings[i]
		if h.HasVotingRights {
			switch {
			case res.TotalVotingShares > 0:
				h.VotingPercent = round(h.Shares / res.TotalVotingShares * 100)
			case votingOwnership > 0:
				// Percentages only: voting share is ownership among voters.
				h.VotingPercent = round(h.OwnershipPercent / votingOwnership * 100)
			}
		}
		switch {
		case h.VotingPercent > Threshold:
			h.IsUBO = true
			h.UBOReason = ReasonVotingAboveThreshold
		case sh.IsBeneficialOwner != nil && *sh.IsBeneficialOwner:
			h.IsUBO = true
			h.UBOReason = ReasonDeclaredOwner
		}
	}

	return res
}

// EquityCheck grades how far the cap table is from summing to 100%.
type EquityCheck struct {
	Total     float64
	Deviation float64
	Level     domain.FlagLevel
	Penalty   float64
}

// Consistent reports whether the cap table needs no flag.
func (e EquityCheck) Consistent() bool {
	return e.Level == ""
}

// CheckEquity accepts totals within one point of 100. Deviations above two
// points are critical; between one and two, a warning.
func CheckEquity(r Resolution) EquityCheck {
	dev := round(math.Abs(r.EquityTotal - 100))
	check := EquityCheck{Total: r.EquityTotal, Deviation: dev}
	switch {
	case dev > 2:
		check.Level = domain.LevelCritical
		check.Penalty = 0.2
	case dev > 1:
		check.Level = domain.LevelWarning
		check.Penalty = 0.05
	}
	return check
}

func round(v float64) float64 {
	return math.Round(v*10000) / 10000
}
