package decision

import (
	"fmt"

	"kycengine/internal/decision/immigration"
	"kycengine/internal/domain"
	kstrings "kycengine/pkg/platform/strings"
)

// Nationality of the person whose identity documents are on file.
type Nationality string

const (
	NationalityMexican Nationality = "mexican"
	NationalityForeign Nationality = "foreign"
	NationalityUnknown Nationality = "unknown"
)

// identitySet is the identity documents on file, one per shape.
type identitySet struct {
	nationalID *domain.NationalID
	status     *domain.ImmigrationStatus
	passport   *domain.Passport
}

func identityDocuments(p *domain.Profile) identitySet {
	var s identitySet
	switch d := p.RepresentativeIdentity.(type) {
	case domain.NationalID:
		s.nationalID = &d
	case *domain.NationalID:
		s.nationalID = d
	case domain.ImmigrationStatus:
		s.status = &d
	case *domain.ImmigrationStatus:
		s.status = d
	case domain.Passport:
		s.passport = &d
	case *domain.Passport:
		s.passport = d
	}
	if p.PassportIdentity != nil {
		s.passport = p.PassportIdentity
	}
	return s
}

func (s identitySet) empty() bool {
	return s.nationalID == nil && s.status == nil && s.passport == nil
}

// DetermineNationality infers nationality from the identity documents. A
// national ID card is issued only to Mexicans; an immigration document only
// to foreigners. A passport decides by its nationality or issuing country.
func DetermineNationality(p *domain.Profile) Nationality {
	docs := identityDocuments(p)
	switch {
	case docs.nationalID != nil:
		return NationalityMexican
	case docs.status != nil:
		return NationalityForeign
	case docs.passport != nil:
		if docs.passport.IsMexican() {
			return NationalityMexican
		}
		if docs.passport.Nationality != "" || docs.passport.IssuingCountry != "" {
			return NationalityForeign
		}
	}
	return NationalityUnknown
}

// checkIdentityRequirements applies the nationality by entity-type matrix.
// Mexicans need one Mexican ID (national ID or Mexican passport). Foreigners
// need a passport and an immigration status document. The entity type only
// changes whose documents are being asked for.
func (ev *evaluation) checkIdentityRequirements() {
	docs := identityDocuments(ev.profile)
	subject := "the customer"
	if ev.entityType == domain.EntityPersonaMoral {
		subject = "the legal representative"
	}

	const label = "Identity documents"
	switch {
	case docs.empty():
		ev.checklist.mark(label, false, "none on file")
		ev.add(domain.ValidationFlag{
			Code:           CodeMissingIdentityDocument,
			Level:          domain.LevelCritical,
			Message:        fmt.Sprintf("No identity document was provided for %s", subject),
			ActionRequired: "Request an INE, passport or tarjeta de residente",
			Penalty:        0.3,
		})

	case ev.nationality == NationalityMexican:
		ev.checklist.mark(label, true, "Mexican national")

	case ev.nationality == NationalityForeign && docs.passport != nil && docs.status != nil:
		ev.checklist.mark(label, true, "foreign national with passport and immigration status")

	case ev.nationality == NationalityForeign && docs.passport != nil:
		ev.checklist.mark(label, false, "immigration status document missing")
		ev.add(domain.ValidationFlag{
			Code:           CodeMissingImmigrationDocument,
			Level:          domain.LevelCritical,
			Message:        fmt.Sprintf("%s is a foreign national with a passport but no immigration status document", capitalize(subject)),
			ActionRequired: "Request a tarjeta de residente temporal or permanente",
			SupportingDocs: kstrings.DedupeAndTrim([]string{docs.passport.SourceDocument}),
			Penalty:        0.2,
		})

	case ev.nationality == NationalityForeign:
		ev.checklist.mark(label, false, "passport missing")
		ev.add(domain.ValidationFlag{
			Code:           CodeMissingPassport,
			Level:          domain.LevelCritical,
			Message:        fmt.Sprintf("%s is a foreign national with an immigration document but no passport", capitalize(subject)),
			ActionRequired: "Request the passport",
			SupportingDocs: kstrings.DedupeAndTrim([]string{docs.status.SourceDocument}),
			Penalty:        0.15,
		})

	default:
		ev.checklist.mark(label, false, "nationality could not be determined")
		ev.add(domain.ValidationFlag{
			Code:           CodeNationalityUnknown,
			Level:          domain.LevelWarning,
			Message:        fmt.Sprintf("The nationality of %s could not be determined from the passport", subject),
			ActionRequired: "Confirm nationality and request the matching documents",
			SupportingDocs: kstrings.DedupeAndTrim([]string{docs.passport.SourceDocument}),
			Penalty:        0.1,
		})
	}
}

// checkIdentityDocuments validates every identity document on file.
func (ev *evaluation) checkIdentityDocuments() {
	docs := identityDocuments(ev.profile)
	var outcomes []immigration.Outcome
	if docs.status != nil {
		outcomes = append(outcomes, immigration.ValidateImmigrationStatus(*docs.status, ev.asOf))
	}
	if docs.nationalID != nil {
		outcomes = append(outcomes, immigration.ValidateNationalID(*docs.nationalID, ev.asOf))
	}
	if docs.passport != nil {
		outcomes = append(outcomes, immigration.ValidatePassport(*docs.passport, ev.asOf))
	}

	valid := len(outcomes) > 0
	for _, o := range outcomes {
		valid = valid && o.IsValid
		if o.Clean() {
			continue
		}
		ev.add(domain.ValidationFlag{
			Code:           o.Code,
			Level:          o.Level,
			Message:        o.Message,
			ActionRequired: o.ActionRequired,
			SupportingDocs: kstrings.DedupeAndTrim([]string{o.Source}),
			Penalty:        o.Penalty(),
		})
	}
	if len(outcomes) > 0 {
		ev.checklist.mark("Identity document validity", valid, "")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
