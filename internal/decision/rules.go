package decision

import (
	"fmt"
	"strings"

	"kycengine/internal/decision/entity"
	"kycengine/internal/decision/freshness"
	"kycengine/internal/decision/poa"
	"kycengine/internal/decision/signatory"
	"kycengine/internal/decision/ubo"
	"kycengine/internal/domain"
	kstrings "kycengine/pkg/platform/strings"
)

// Flag codes emitted by the orchestrator. Sub-validators own their codes.
const (
	CodeEntityMismatch             = "ENTITY_MISMATCH"
	CodeMissingIdentityDocument    = "MISSING_IDENTITY_DOCUMENT"
	CodeMissingImmigrationDocument = "MISSING_IMMIGRATION_DOCUMENT"
	CodeMissingPassport            = "MISSING_PASSPORT"
	CodeNationalityUnknown         = "NATIONALITY_UNKNOWN"
	CodeNoShareholders             = "NO_SHAREHOLDER_DATA"
	CodeNoUBO                      = "NO_UBO_IDENTIFIED"
	CodeUBOIdentified              = "UBO_IDENTIFIED"
	CodeEquityInconsistent         = "EQUITY_INCONSISTENT"
	CodeLimitedSignatory           = "LIMITED_SIGNATORY_POWERS"
	CodeNoSignatory                = "NO_AUTHORIZED_SIGNATORY"
	CodeRepresentativeNotInDeed    = "REPRESENTATIVE_NOT_IN_DEED"
	CodeZipMismatch                = "ADDRESS_ZIP_MISMATCH"
	CodeMissingDeed                = "MISSING_ACTA_CONSTITUTIVA"
	CodeMissingTaxCertificate      = "MISSING_CONSTANCIA_FISCAL"
	CodeWrongSATType               = "WRONG_SAT_TYPE"
	CodeMissingBankEvidence        = "MISSING_BANK_EVIDENCE"
	CodeEntityTypeUnknown          = "ENTITY_TYPE_UNKNOWN"
	CodeSATStatusNotActive         = "SAT_STATUS_NOT_ACTIVE"
	CodeMissingFolioMercantil      = "MISSING_FOLIO_MERCANTIL"
	CodeForeignShareholdersNoRNIE  = "FOREIGN_SHAREHOLDERS_NO_RNIE"
	CodeForeignShareholders        = "FOREIGN_SHAREHOLDERS"
	CodePOAStale                   = "POA_STALE"
	CodeVerificationChecklist      = "VERIFICATION_CHECKLIST"
)

// RepresentativeMatchThreshold is the token overlap above which the identity
// document holder is taken to be a named representative.
const RepresentativeMatchThreshold = 0.7

// satActiveStatus is the SAT padrón status of a taxpayer in good standing.
const satActiveStatus = "ACTIVO"

func entityMismatchFlag(p *domain.Profile, c entity.Coherence) domain.ValidationFlag {
	var reasons []string
	if !c.RFCMatch {
		reasons = append(reasons, fmt.Sprintf("RFC %s in the acta constitutiva differs from RFC %s in the constancia", c.DeedRFC, c.TaxRFC))
	}
	if !c.NameMatch {
		reasons = append(reasons, fmt.Sprintf("razón social %q differs from %q", c.DeedName, c.TaxName))
	}
	return domain.ValidationFlag{
		Code:           CodeEntityMismatch,
		Level:          domain.LevelCritical,
		Message:        "The incorporation deed and the tax registration describe different entities: " + strings.Join(reasons, "; "),
		ActionRequired: "Request the constancia de situación fiscal of the company named in the acta constitutiva",
		SupportingDocs: kstrings.DedupeAndTrim([]string{p.CompanyIdentity.SourceDocument, p.CompanyTaxProfile.SourceDocument}),
		Penalty:        1,
	}
}

func (ev *evaluation) deedDocs() []string {
	if ev.profile.CompanyIdentity == nil {
		return nil
	}
	return kstrings.DedupeAndTrim([]string{ev.profile.CompanyIdentity.SourceDocument})
}

// checkOwnership resolves UBOs and checks that the cap table adds up.
func (ev *evaluation) checkOwnership() {
	const label = "Beneficial owners"
	deed := ev.profile.CompanyIdentity
	if deed == nil || len(deed.Shareholders) == 0 {
		ev.checklist.mark(label, false, "no shareholder data")
		ev.add(domain.ValidationFlag{
			Code:           CodeNoShareholders,
			Level:          domain.LevelWarning,
			Message:        "The acta constitutiva lists no shareholders; beneficial owners cannot be determined",
			ActionRequired: "Request the current shareholder registry (libro de accionistas)",
			SupportingDocs: ev.deedDocs(),
			Penalty:        0.1,
		})
		return
	}

	res := ubo.Resolve(deed.Shareholders)
	owners := res.UBOs()
	if len(owners) == 0 {
		ev.checklist.mark(label, false, "no shareholder above threshold")
		ev.add(domain.ValidationFlag{
			Code:           CodeNoUBO,
			Level:          domain.LevelWarning,
			Message:        fmt.Sprintf("No shareholder holds more than %.0f%% of voting shares", ubo.Threshold),
			ActionRequired: "Identify the natural persons who exercise control",
			SupportingDocs: ev.deedDocs(),
			Penalty:        0.05,
		})
	} else {
		parts := make([]string, 0, len(owners))
		for _, h := range owners {
			parts = append(parts, fmt.Sprintf("%s (%.2f%% voting)", h.Name, h.VotingPercent))
		}
		ev.checklist.mark(label, true, fmt.Sprintf("%d identified", len(owners)))
		ev.add(domain.ValidationFlag{
			Code:           CodeUBOIdentified,
			Level:          domain.LevelInfo,
			Message:        "Beneficial owners: " + strings.Join(parts, ", "),
			SupportingDocs: ev.deedDocs(),
		})
	}

	equity := ubo.CheckEquity(res)
	if !equity.Consistent() {
		ev.add(domain.ValidationFlag{
			Code:           CodeEquityInconsistent,
			Level:          equity.Level,
			Message:        fmt.Sprintf("Shareholder percentages add up to %.2f%%, %.2f points from 100%%", equity.Total, equity.Deviation),
			ActionRequired: "Confirm the cap table against the latest shareholder registry",
			SupportingDocs: ev.deedDocs(),
			Penalty:        equity.Penalty,
		})
	}
}

// checkSignatories expects at least one representative with full powers.
func (ev *evaluation) checkSignatories(resolver *signatory.Resolver) {
	const label = "Signing authority"
	auths := resolver.Resolve(signatory.Collect(ev.profile))
	var docs []string
	for _, a := range auths {
		docs = append(docs, a.Sources...)
	}
	docs = kstrings.DedupeAndTrim(docs)

	switch {
	case signatory.HasFull(auths):
		ev.checklist.mark(label, true, "full powers")
	case signatory.HasLimited(auths):
		var names []string
		for _, a := range auths {
			if a.Scope == signatory.ScopeLimited {
				names = append(names, a.Name)
			}
		}
		ev.checklist.mark(label, false, "limited powers only")
		ev.add(domain.ValidationFlag{
			Code:           CodeLimitedSignatory,
			Level:          domain.LevelWarning,
			Message:        "No representative holds full powers; limited powers only: " + strings.Join(names, ", "),
			ActionRequired: "Request a poder general covering pleitos y cobranzas, administración, dominio and títulos de crédito",
			SupportingDocs: docs,
			Penalty:        0.1,
		})
	default:
		ev.checklist.mark(label, false, "no authorized signatory")
		ev.add(domain.ValidationFlag{
			Code:           CodeNoSignatory,
			Level:          domain.LevelCritical,
			Message:        "No representative is empowered to sign on behalf of the company",
			ActionRequired: "Request the poder notarial of the legal representative",
			SupportingDocs: docs,
			Penalty:        0.2,
		})
	}
}

// checkRepresentativeInDeed warns when the identity document belongs to
// nobody named in the deed or a poder.
func (ev *evaluation) checkRepresentativeInDeed() {
	id := ev.profile.RepresentativeIdentity
	if id == nil || strings.TrimSpace(id.HolderName()) == "" {
		return
	}
	records := signatory.Collect(ev.profile)
	if len(records) == 0 {
		return
	}
	for _, rec := range records {
		if kstrings.NamesMatch(id.HolderName(), rec.Representative.Name, RepresentativeMatchThreshold) {
			return
		}
	}
	ev.add(domain.ValidationFlag{
		Code:           CodeRepresentativeNotInDeed,
		Level:          domain.LevelWarning,
		Message:        fmt.Sprintf("%s, holder of the identity document, is not named as a representative in the deed or any poder", id.HolderName()),
		ActionRequired: "Request the poder that appoints this person, or the identity document of a named representative",
		SupportingDocs: kstrings.DedupeAndTrim(append([]string{id.Source()}, ev.deedDocs()...)),
		Penalty:        0.05,
	})
}

// checkZipConsistency compares fiscal and operational postal codes.
func (ev *evaluation) checkZipConsistency() {
	fiscal, operational := ev.profile.CurrentFiscalAddress, ev.profile.CurrentOperationalAddress
	if fiscal.IsZero() || operational.IsZero() {
		return
	}
	a, b := strings.TrimSpace(fiscal.CodigoPostal), strings.TrimSpace(operational.CodigoPostal)
	if a == "" || b == "" || a == b {
		return
	}
	ev.add(domain.ValidationFlag{
		Code:           CodeZipMismatch,
		Level:          domain.LevelWarning,
		Message:        fmt.Sprintf("Fiscal address postal code %s differs from operational address postal code %s", a, b),
		ActionRequired: "Confirm the operating address or request an updated constancia",
		Penalty:        0.05,
	})
}

// poaState keeps the proof-of-address outcome for later checks.
type poaState struct {
	evaluated bool
	result    poa.Result
}

func (ev *evaluation) checkProofOfAddress() {
	res := poa.Validate(poa.FromProfile(ev.profile, ev.entityType, ev.cfg.DemoMode))
	ev.poa = poaState{evaluated: true, result: res}

	note := string(res.Source)
	if res.ThirdParty != poa.ThirdPartyNone {
		note += ", " + string(res.ThirdParty)
	}
	ev.checklist.mark("Proof of address", res.Acceptable, note)
	ev.add(res.Flags...)
}

// checkCoverage asks for the documents the entity type requires.
func (ev *evaluation) checkCoverage() {
	p := ev.profile
	switch ev.entityType {
	case domain.EntityPersonaMoral:
		ev.checklist.mark("Acta constitutiva", p.CompanyIdentity != nil, "")
		if p.CompanyIdentity == nil {
			ev.add(domain.ValidationFlag{
				Code:           CodeMissingDeed,
				Level:          domain.LevelCritical,
				Message:        "The RFC belongs to a persona moral but no acta constitutiva was provided",
				ActionRequired: "Request the acta constitutiva",
				Penalty:        0.2,
			})
		}
		ev.checkCorporateTaxRecord()

	case domain.EntityPersonaFisicaEmpresarial, domain.EntityPersonaFisicaSinObligaciones:
		ev.checklist.mark("Constancia de situación fiscal", p.CompanyTaxProfile != nil, "")

	default:
		ev.checklist.mark("Entity type", false, "could not be determined")
		ev.add(domain.ValidationFlag{
			Code:           CodeEntityTypeUnknown,
			Level:          domain.LevelWarning,
			Message:        "The entity type could not be determined from the documents provided",
			ActionRequired: "Request the constancia de situación fiscal",
			Penalty:        0.1,
		})
	}

	ev.checklist.mark("Bank evidence", len(p.BankAccounts) > 0, "")
	if len(p.BankAccounts) == 0 {
		ev.add(domain.ValidationFlag{
			Code:           CodeMissingBankEvidence,
			Level:          domain.LevelWarning,
			Message:        "No bank statement or account certificate was provided",
			ActionRequired: "Request a recent bank statement",
			Penalty:        0.05,
		})
	}
}

func (ev *evaluation) checkCorporateTaxRecord() {
	tax := ev.profile.CompanyTaxProfile
	const label = "Constancia de situación fiscal"
	switch {
	case tax == nil:
		ev.checklist.mark(label, false, "missing")
		ev.add(domain.ValidationFlag{
			Code:           CodeMissingTaxCertificate,
			Level:          domain.LevelCritical,
			Message:        "No constancia de situación fiscal was provided for the company",
			ActionRequired: "Request the company's constancia de situación fiscal",
			SupportingDocs: ev.deedDocs(),
			Penalty:        0.15,
		})
	case ev.profile.CompanyIdentity != nil && entity.IsPersonalRFC(tax.RFC):
		ev.checklist.mark(label, false, "personal record on file")
		ev.add(domain.ValidationFlag{
			Code:           CodeWrongSATType,
			Level:          domain.LevelCritical,
			Message:        fmt.Sprintf("The constancia on file (RFC %s) belongs to an individual, not to the company", entity.NormalizeRFC(tax.RFC)),
			ActionRequired: "Request the company's constancia de situación fiscal",
			SupportingDocs: kstrings.DedupeAndTrim([]string{tax.SourceDocument}),
			Penalty:        0.2,
		})
	default:
		ev.checklist.mark(label, true, "")
	}
}

// checkSATStatus warns about a taxpayer not in good standing.
func (ev *evaluation) checkSATStatus() {
	tax := ev.profile.CompanyTaxProfile
	if tax == nil || strings.TrimSpace(tax.Status) == "" {
		return
	}
	if kstrings.NormalizeName(tax.Status) == satActiveStatus {
		return
	}
	ev.add(domain.ValidationFlag{
		Code:           CodeSATStatusNotActive,
		Level:          domain.LevelWarning,
		Message:        fmt.Sprintf("SAT reports the taxpayer status as %q", strings.TrimSpace(tax.Status)),
		ActionRequired: "Request a constancia showing status ACTIVO",
		SupportingDocs: kstrings.DedupeAndTrim([]string{tax.SourceDocument}),
		Penalty:        0.1,
	})
}

// checkFolioMercantil requires a Registro Público de Comercio folio from
// sociedades mercantiles. Sociedades and asociaciones civiles register
// elsewhere.
func (ev *evaluation) checkFolioMercantil() {
	deed := ev.profile.CompanyIdentity
	if ev.entityType != domain.EntityPersonaMoral || deed == nil || entity.IsSociedadCivil(deed.RazonSocial) {
		return
	}
	ev.checklist.mark("Folio mercantil", strings.TrimSpace(deed.FolioMercantil) != "", "")
	if strings.TrimSpace(deed.FolioMercantil) != "" {
		return
	}
	ev.add(domain.ValidationFlag{
		Code:           CodeMissingFolioMercantil,
		Level:          domain.LevelWarning,
		Message:        "The acta constitutiva shows no folio mercantil from the Registro Público de Comercio",
		ActionRequired: "Request the boleta de inscripción in the Registro Público de Comercio",
		SupportingDocs: ev.deedDocs(),
		Penalty:        0.05,
	})
}

// checkForeignOwnership looks for non-Mexican shareholders, whose
// investment must be registered with the RNIE.
func (ev *evaluation) checkForeignOwnership() {
	deed := ev.profile.CompanyIdentity
	if ev.entityType != domain.EntityPersonaMoral || deed == nil {
		return
	}
	var foreign []string
	for _, sh := range deed.Shareholders {
		if strings.TrimSpace(sh.Nationality) != "" && !domain.IsMexicanNationality(sh.Nationality) {
			foreign = append(foreign, fmt.Sprintf("%s (%s)", sh.Name, strings.TrimSpace(sh.Nationality)))
		}
	}
	if len(foreign) == 0 {
		return
	}

	if folio := strings.TrimSpace(deed.RNIEFolio); folio != "" {
		ev.checklist.mark("RNIE registration", true, folio)
		ev.add(domain.ValidationFlag{
			Code:           CodeForeignShareholders,
			Level:          domain.LevelInfo,
			Message:        fmt.Sprintf("Foreign shareholders %s; RNIE folio %s", strings.Join(foreign, ", "), folio),
			SupportingDocs: ev.deedDocs(),
		})
		return
	}
	ev.checklist.mark("RNIE registration", false, "missing")
	ev.add(domain.ValidationFlag{
		Code:           CodeForeignShareholdersNoRNIE,
		Level:          domain.LevelWarning,
		Message:        "Foreign shareholders without RNIE registration: " + strings.Join(foreign, ", "),
		ActionRequired: "Request the Registro Nacional de Inversiones Extranjeras constancia",
		SupportingDocs: ev.deedDocs(),
		Penalty:        0.05,
	})
}

// checkProofOfAddressFreshness flags a proof of address older than 90 days.
func (ev *evaluation) checkProofOfAddressFreshness() {
	if !ev.poa.evaluated || ev.poa.result.Source == poa.SourceNone {
		return
	}
	res := freshness.Evaluate(freshness.Check{
		Name:       "proof_of_address",
		Documents:  ev.poa.result.Documents,
		Date:       ev.poa.result.DocumentDate,
		MaxAgeDays: freshness.ProofOfAddressMaxAgeDays,
	}, ev.asOf)
	if !res.Stale() {
		return
	}
	ev.checklist.mark("Proof of address age", false, fmt.Sprintf("%d days", res.AgeDays))
	ev.add(domain.ValidationFlag{
		Code:           CodePOAStale,
		Level:          domain.LevelWarning,
		Message:        fmt.Sprintf("Proof of address is %d days old; the limit is %d days", res.AgeDays, res.MaxAgeDays),
		ActionRequired: "Request a proof of address issued within the last three months",
		SupportingDocs: res.Documents,
		Penalty:        0.1,
	})
}
