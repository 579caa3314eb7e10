package signatory

import (
	"fmt"
	"slices"
	"strings"

	"kycengine/internal/domain"
	kstrings "kycengine/pkg/platform/strings"
)

// Scope is the signing authority a representative holds.
type Scope string

const (
	ScopeNone    Scope = "none"
	ScopeLimited Scope = "limited"
	ScopeFull    Scope = "full"
)

func (s Scope) rank() int {
	switch s {
	case ScopeFull:
		return 2
	case ScopeLimited:
		return 1
	default:
		return 0
	}
}

// Authority is the resolved signing authority of one person.
type Authority struct {
	Name        string
	Role        string
	Scope       Scope
	Matched     []Power
	Missing     []Power
	Limitations []string
	Sources     []string
}

// Record is a representative as listed in one source document.
type Record struct {
	Representative domain.LegalRepresentative
	Source         string
}

// Collect gathers representative records from the deed and every poder.
func Collect(p *domain.Profile) []Record {
	var out []Record
	if p.CompanyIdentity != nil {
		for _, rep := range p.CompanyIdentity.LegalRepresentatives {
			out = append(out, Record{Representative: rep, Source: p.CompanyIdentity.SourceDocument})
		}
	}
	for _, poa := range p.PowersOfAttorney {
		for _, rep := range poa.Representatives {
			out = append(out, Record{Representative: rep, Source: poa.SourceDocument})
		}
	}
	return out
}

// Resolver applies a PhraseTable to representative records.
type Resolver struct {
	table PhraseTable
}

// NewResolver builds a resolver over table.
func NewResolver(table PhraseTable) *Resolver {
	return &Resolver{table: table}
}

// Classify resolves one record on its own.
func (r *Resolver) Classify(rec Record) Authority {
	rep := rec.Representative
	auth := Authority{
		Name:    strings.TrimSpace(rep.Name),
		Role:    strings.TrimSpace(rep.Role),
		Sources: kstrings.DedupeAndTrim([]string{rec.Source}),
	}

	var labelled, restricted bool
	for _, fragment := range rep.Powers {
		text := normalizeText(fragment)
		for _, p := range CanonicalPowers {
			if r.table.powers[p].MatchString(text) && !slices.Contains(auth.Matched, p) {
				auth.Matched = append(auth.Matched, p)
			}
		}
		if kw := find(r.table.limitation, text); kw != "" {
			labelled = true
			auth.Limitations = appendUnique(auth.Limitations, fmt.Sprintf("poder labelled %q", kw))
		}
		if r.table.powers[PowerAdministracion].MatchString(text) {
			if kw := find(r.table.restriction, r.table.withoutJointExercise(text)); kw != "" {
				restricted = true
				auth.Limitations = appendUnique(auth.Limitations, fmt.Sprintf("actos de administracion restricted by %q", kw))
			}
		}
	}
	slices.SortFunc(auth.Matched, comparePowers)
	auth.Missing = missing(auth.Matched)

	role := normalizeText(rep.Role)
	switch {
	case !rep.CanSignContracts:
		auth.Scope = ScopeNone
		auth.Limitations = appendUnique(auth.Limitations, "not empowered to sign contracts")
	case find(r.table.officer, role) != "" && find(r.table.attorney, role) == "":
		auth.Scope = ScopeNone
		auth.Limitations = appendUnique(auth.Limitations, fmt.Sprintf("officer role %q without apoderado designation", auth.Role))
	case len(auth.Matched) == len(CanonicalPowers) && !labelled && !restricted:
		auth.Scope = ScopeFull
	case len(auth.Matched) > 0:
		auth.Scope = ScopeLimited
	default:
		auth.Scope = ScopeNone
	}
	return auth
}

// Resolve classifies every record and merges records that name the same
// person. The highest scope wins, matched powers union, missing powers
// intersect, and a full scope clears limitations and missing powers.
// Output keeps first-appearance order.
func (r *Resolver) Resolve(records []Record) []Authority {
	var order []string
	merged := make(map[string]*Authority)

	for _, rec := range records {
		auth := r.Classify(rec)
		key := kstrings.NormalizeName(auth.Name)
		if key == "" {
			continue
		}
		existing, ok := merged[key]
		if !ok {
			merged[key] = &auth
			order = append(order, key)
			continue
		}
		mergeInto(existing, auth)
	}

	out := make([]Authority, 0, len(order))
	for _, key := range order {
		a := merged[key]
		if a.Scope == ScopeFull {
			a.Limitations = nil
			a.Missing = nil
		}
		out = append(out, *a)
	}
	return out
}

// HasFull reports whether any authority can sign with full powers.
func HasFull(auths []Authority) bool {
	return slices.ContainsFunc(auths, func(a Authority) bool { return a.Scope == ScopeFull })
}

// HasLimited reports whether any authority holds limited powers.
func HasLimited(auths []Authority) bool {
	return slices.ContainsFunc(auths, func(a Authority) bool { return a.Scope == ScopeLimited })
}

func mergeInto(dst *Authority, src Authority) {
	if src.Scope.rank() > dst.Scope.rank() {
		dst.Scope = src.Scope
		if src.Role != "" {
			dst.Role = src.Role
		}
	}
	if dst.Role == "" {
		dst.Role = src.Role
	}
	for _, p := range src.Matched {
		if !slices.Contains(dst.Matched, p) {
			dst.Matched = append(dst.Matched, p)
		}
	}
	slices.SortFunc(dst.Matched, comparePowers)

	var stillMissing []Power
	for _, p := range dst.Missing {
		if slices.Contains(src.Missing, p) {
			stillMissing = append(stillMissing, p)
		}
	}
	dst.Missing = stillMissing

	for _, l := range src.Limitations {
		dst.Limitations = appendUnique(dst.Limitations, l)
	}
	dst.Sources = kstrings.DedupeAndTrim(append(dst.Sources, src.Sources...))
}

func missing(matched []Power) []Power {
	var out []Power
	for _, p := range CanonicalPowers {
		if !slices.Contains(matched, p) {
			out = append(out, p)
		}
	}
	return out
}

func comparePowers(a, b Power) int {
	return slices.Index(CanonicalPowers, a) - slices.Index(CanonicalPowers, b)
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
