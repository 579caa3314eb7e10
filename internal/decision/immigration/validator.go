// Package immigration validates identity and immigration-status documents.
//
// Legal status and the physical card are judged separately: a permanent
// resident keeps the status even when the card has expired.
package immigration

import (
	"fmt"
	"strings"
	"time"

	"kycengine/internal/decision/freshness"
	"kycengine/internal/domain"
)

const (
	// ExpiryWarningDays is how close to expiry a temporary residence card
	// starts to warn.
	ExpiryWarningDays = 30
	// PermanentCardRenewalYears is the age after which an indefinite
	// permanent-resident card is noted as old.
	PermanentCardRenewalYears = 10
)

// Outcome codes. Codes ending in _VALID need no flag.
const (
	CodeFMMNotAccepted            = "FMM_NOT_ACCEPTED"
	CodeObsoleteDocument          = "OBSOLETE_IMMIGRATION_DOCUMENT"
	CodeUnknownDocument           = "UNKNOWN_IMMIGRATION_DOCUMENT"
	CodePermanentValid            = "RESIDENCIA_PERMANENTE_VALID"
	CodePermanentOldCard          = "RESIDENCIA_PERMANENTE_OLD_CARD"
	CodePermanentCardExpired      = "RESIDENCIA_PERMANENTE_CARD_EXPIRED"
	CodeTemporaryValid            = "RESIDENCIA_TEMPORAL_VALID"
	CodeTemporaryMissingExpiry    = "RESIDENCIA_TEMPORAL_MISSING_EXPIRY"
	CodeTemporaryExpired          = "RESIDENCIA_TEMPORAL_EXPIRED"
	CodeTemporaryExpiringSoon     = "RESIDENCIA_TEMPORAL_EXPIRING_SOON"
	CodeNationalIDValid           = "INE_VALID"
	CodeNationalIDExpired         = "INE_EXPIRED"
	CodeNationalIDMissingExpiry   = "INE_MISSING_EXPIRY"
	CodeNationalIDSuspiciousIssue = "INE_ISSUE_DATE_SUSPICIOUS"
	CodePassportValid             = "PASSPORT_VALID"
	CodePassportExpired           = "PASSPORT_EXPIRED"
	CodePassportMissingExpiry     = "PASSPORT_MISSING_EXPIRY"
)

const (
	obsoleteFormatsReplacedOn       = "November 2012"
	permanentResidentCardNoun       = "tarjeta de residente permanente"
	temporaryResidentCardNoun       = "tarjeta de residente temporal"
	renewalAction                   = "Request a current document from the customer"
	immigrationStatusRequiredAction = "Request a valid tarjeta de residente (temporal or permanente)"
)

// Outcome is the judgement on one document.
type Outcome struct {
	Kind           domain.DocumentKind
	DocumentType   string
	IsValid        bool
	StatusValid    bool
	DocumentValid  bool
	Code           string
	Level          domain.FlagLevel
	Message        string
	ActionRequired string
	Source         string
}

// Clean reports whether the outcome is a plain "valid" result that needs no
// flag.
func (o Outcome) Clean() bool {
	return strings.HasSuffix(o.Code, "_VALID")
}

// Penalty is the score deduction for the outcome. A critical problem with
// the legal status costs more than one limited to the physical document.
func (o Outcome) Penalty() float64 {
	switch o.Level {
	case domain.LevelCritical:
		if !o.StatusValid {
			return 0.25
		}
		return 0.10
	case domain.LevelWarning:
		return 0.05
	default:
		return 0
	}
}

// ValidateImmigrationStatus applies the per-type decision table.
func ValidateImmigrationStatus(d domain.ImmigrationStatus, asOf time.Time) Outcome {
	o := Outcome{
		Kind:         domain.DocumentKindImmigrationStatus,
		DocumentType: string(d.DocumentType),
		Source:       d.SourceDocument,
	}

	switch d.DocumentType {
	case domain.ImmigrationFMM:
		o.DocumentValid = !expired(d.ExpiryDate, asOf)
		o.Code = CodeFMMNotAccepted
		o.Level = domain.LevelCritical
		o.Message = "FMM is a visitor permit and does not grant residence; it is not accepted for onboarding"
		o.ActionRequired = immigrationStatusRequiredAction

	case domain.ImmigrationFM2, domain.ImmigrationFM3:
		o.Code = CodeObsoleteDocument
		o.Level = domain.LevelCritical
		o.Message = fmt.Sprintf("%s was replaced by resident cards in %s and is no longer valid", d.DocumentType, obsoleteFormatsReplacedOn)
		o.ActionRequired = immigrationStatusRequiredAction

	case domain.ImmigrationResidentePermanente:
		return permanentResident(o, d, asOf)

	case domain.ImmigrationResidenteTemporal:
		return temporaryResident(o, d, asOf)

	default:
		o.Code = CodeUnknownDocument
		o.Level = domain.LevelCritical
		o.Message = fmt.Sprintf("Immigration document type %q not recognized", d.DocumentType)
		o.ActionRequired = immigrationStatusRequiredAction
	}
	return o
}

func permanentResident(o Outcome, d domain.ImmigrationStatus, asOf time.Time) Outcome {
	o.StatusValid = true
	o.IsValid = true

	if d.ExpiryDate == nil {
		o.DocumentValid = true
		o.Level = domain.LevelInfo
		if d.IssueDate != nil && asOf.Year()-d.IssueDate.Year() > PermanentCardRenewalYears {
			o.Code = CodePermanentOldCard
			o.Message = fmt.Sprintf("Indefinite %s issued in %d; status is valid but the photo may be outdated", permanentResidentCardNoun, d.IssueDate.Year())
			return o
		}
		o.Code = CodePermanentValid
		o.Message = "Permanent residence with indefinite card"
		return o
	}

	if expired(d.ExpiryDate, asOf) {
		o.DocumentValid = false
		o.Code = CodePermanentCardExpired
		o.Level = domain.LevelWarning
		o.Message = fmt.Sprintf("Permanent residence status remains valid but the %s expired on %s", permanentResidentCardNoun, formatDate(d.ExpiryDate))
		o.ActionRequired = "Ask the customer to renew the resident card"
		return o
	}

	o.DocumentValid = true
	o.Code = CodePermanentValid
	o.Level = domain.LevelInfo
	o.Message = fmt.Sprintf("Permanent residence; card valid until %s", formatDate(d.ExpiryDate))
	return o
}

func temporaryResident(o Outcome, d domain.ImmigrationStatus, asOf time.Time) Outcome {
	if d.ExpiryDate == nil {
		o.Code = CodeTemporaryMissingExpiry
		o.Level = domain.LevelCritical
		o.Message = fmt.Sprintf("The %s has no expiry date, so the residence status cannot be confirmed", temporaryResidentCardNoun)
		o.ActionRequired = "Obtain a legible copy of the resident card showing its expiry date"
		return o
	}

	remaining := freshness.DaysBetween(asOf, *d.ExpiryDate)
	switch {
	case remaining < 0:
		o.Code = CodeTemporaryExpired
		o.Level = domain.LevelCritical
		o.Message = fmt.Sprintf("Temporary residence expired on %s", formatDate(d.ExpiryDate))
		o.ActionRequired = renewalAction
	case remaining <= ExpiryWarningDays:
		o.IsValid, o.StatusValid, o.DocumentValid = true, true, true
		o.Code = CodeTemporaryExpiringSoon
		o.Level = domain.LevelWarning
		o.Message = fmt.Sprintf("Temporary residence expires in %d days (%s)", remaining, formatDate(d.ExpiryDate))
		o.ActionRequired = "Confirm the customer has started the renewal"
	default:
		o.IsValid, o.StatusValid, o.DocumentValid = true, true, true
		o.Code = CodeTemporaryValid
		o.Level = domain.LevelInfo
		o.Message = fmt.Sprintf("Temporary residence valid until %s", formatDate(d.ExpiryDate))
	}
	return o
}

// ValidateNationalID checks an INE/IFE credential. Mexican nationality is
// never in doubt, so problems are limited to the card.
func ValidateNationalID(d domain.NationalID, asOf time.Time) Outcome {
	kind := string(d.Type)
	if kind == "" {
		kind = string(domain.NationalIDINE)
	}
	o := Outcome{
		Kind:         domain.DocumentKindNationalID,
		DocumentType: kind,
		StatusValid:  true,
		Source:       d.SourceDocument,
	}

	switch {
	case d.ExpiryDate == nil:
		o.IsValid, o.DocumentValid = true, true
		o.Code = CodeNationalIDMissingExpiry
		o.Level = domain.LevelWarning
		o.Message = fmt.Sprintf("%s credential has no legible vigencia", kind)
		o.ActionRequired = "Verify the credential's vigencia against the INE registry"
	case expired(d.ExpiryDate, asOf):
		o.Code = CodeNationalIDExpired
		o.Level = domain.LevelCritical
		o.Message = fmt.Sprintf("%s credential expired on %s", kind, formatDate(d.ExpiryDate))
		o.ActionRequired = renewalAction
	case d.IssueDate != nil && d.IssueDate.Month() == time.January && d.IssueDate.Day() == 1:
		o.IsValid, o.DocumentValid = true, true
		o.Code = CodeNationalIDSuspiciousIssue
		o.Level = domain.LevelWarning
		o.Message = fmt.Sprintf("%s issue date %s falls on January 1, which is statistically implausible", kind, formatDate(d.IssueDate))
		o.ActionRequired = "Check the extracted issue date against the document image"
	default:
		o.IsValid, o.DocumentValid = true, true
		o.Code = CodeNationalIDValid
		o.Level = domain.LevelInfo
		o.Message = fmt.Sprintf("%s credential valid until %s", kind, formatDate(d.ExpiryDate))
	}
	return o
}

// ValidatePassport checks a passport's expiry. An expired passport is a
// warning: a foreign national's valid status document still carries the file.
func ValidatePassport(d domain.Passport, asOf time.Time) Outcome {
	o := Outcome{
		Kind:         domain.DocumentKindPassport,
		DocumentType: "PASSPORT",
		StatusValid:  true,
		Source:       d.SourceDocument,
	}
	switch {
	case d.ExpiryDate == nil:
		o.IsValid, o.DocumentValid = true, true
		o.Code = CodePassportMissingExpiry
		o.Level = domain.LevelWarning
		o.Message = "Passport expiry date could not be read"
		o.ActionRequired = "Check the passport data page"
	case expired(d.ExpiryDate, asOf):
		o.Code = CodePassportExpired
		o.Level = domain.LevelWarning
		o.Message = fmt.Sprintf("Passport expired on %s", formatDate(d.ExpiryDate))
		o.ActionRequired = renewalAction
	default:
		o.IsValid, o.DocumentValid = true, true
		o.Code = CodePassportValid
		o.Level = domain.LevelInfo
		o.Message = fmt.Sprintf("Passport valid until %s", formatDate(d.ExpiryDate))
	}
	return o
}

func expired(expiry *time.Time, asOf time.Time) bool {
	return expiry != nil && freshness.DaysBetween(asOf, *expiry) < 0
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
