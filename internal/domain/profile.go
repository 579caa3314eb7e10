package domain

import "time"

// EntityType is the legal-entity category that gates which rules apply.
type EntityType string

const (
	EntityPersonaMoral                 EntityType = "PERSONA_MORAL"
	EntityPersonaFisicaEmpresarial     EntityType = "PERSONA_FISICA_EMPRESARIAL"
	EntityPersonaFisicaSinObligaciones EntityType = "PERSONA_FISICA_SIN_OBLIGACIONES"
	EntityUnknown                      EntityType = "UNKNOWN"
)

// IsPersonaFisica reports whether e is one of the individual subtypes.
func (e EntityType) IsPersonaFisica() bool {
	return e == EntityPersonaFisicaEmpresarial || e == EntityPersonaFisicaSinObligaciones
}

// Profile is the normalized customer file assembled from extraction results.
// The engine reads it and never modifies it.
type Profile struct {
	CustomerID string `json:"customer_id"`

	CompanyIdentity        *CompanyIdentity   `json:"company_identity,omitempty"`
	CompanyTaxProfile      *CompanyTaxProfile `json:"company_tax_profile,omitempty"`
	RepresentativeIdentity IdentityDocument   `json:"-"`
	PassportIdentity       *Passport          `json:"passport_identity,omitempty"`

	AddressEvidence  []AddressEvidence `json:"address_evidence,omitempty"`
	BankAccounts     []BankAccount     `json:"bank_accounts,omitempty"`
	PowersOfAttorney []PowerOfAttorney `json:"powers_of_attorney,omitempty"`

	CurrentFiscalAddress      *Address `json:"current_fiscal_address,omitempty"`
	CurrentOperationalAddress *Address `json:"current_operational_address,omitempty"`
	FoundingAddress           *Address `json:"founding_address,omitempty"`
}

// CompanyIdentity is read from the acta constitutiva (incorporation deed).
type CompanyIdentity struct {
	RazonSocial          string                `json:"razon_social"`
	RFC                  string                `json:"rfc,omitempty"`
	IncorporationDate    *time.Time            `json:"incorporation_date,omitempty"`
	FolioMercantil       string                `json:"folio_mercantil,omitempty"`
	RNIEFolio            string                `json:"rnie_folio,omitempty"`
	Shareholders         []Shareholder         `json:"shareholders,omitempty"`
	LegalRepresentatives []LegalRepresentative `json:"legal_representatives,omitempty"`
	FoundingAddress      *Address              `json:"founding_address,omitempty"`
	SourceDocument       string                `json:"source_document,omitempty"`
}

// EconomicActivity is one activity line of the constancia de situación fiscal.
type EconomicActivity struct {
	Description string  `json:"description"`
	Percentage  float64 `json:"percentage,omitempty"`
}

// CompanyTaxProfile is read from the SAT constancia de situación fiscal.
type CompanyTaxProfile struct {
	RFC                string             `json:"rfc"`
	Name               string             `json:"name"`
	TaxRegime          string             `json:"tax_regime,omitempty"`
	EconomicActivities []EconomicActivity `json:"economic_activities,omitempty"`
	FiscalAddress      *Address           `json:"fiscal_address,omitempty"`
	Status             string             `json:"status,omitempty"`
	IssueDate          *time.Time         `json:"issue_date,omitempty"`
	SourceDocument     string             `json:"source_document,omitempty"`
}

// Shareholder is one line of the deed's cap table.
type Shareholder struct {
	Name              string   `json:"name"`
	Shares            float64  `json:"shares"`
	Percentage        *float64 `json:"percentage,omitempty"`
	ShareSeries       string   `json:"share_series,omitempty"`
	ShareType         string   `json:"share_type,omitempty"`
	HasVotingRights   *bool    `json:"has_voting_rights,omitempty"`
	IsBeneficialOwner *bool    `json:"is_beneficial_owner,omitempty"`
	Nationality       string   `json:"nationality,omitempty"`
}

// LegalRepresentative is a person named with powers in a deed or poder.
type LegalRepresentative struct {
	Name             string   `json:"name"`
	Role             string   `json:"role,omitempty"`
	Powers           []string `json:"powers,omitempty"`
	CanSignContracts bool     `json:"can_sign_contracts"`
}

// PowerOfAttorney is a standalone poder notarial granted after incorporation.
type PowerOfAttorney struct {
	Representatives []LegalRepresentative `json:"representatives"`
	SourceDocument  string                `json:"source_document,omitempty"`
}

// AddressEvidence is a utility bill (CFE, Telmex, agua, gas).
type AddressEvidence struct {
	HolderName     string     `json:"holder_name"`
	ServiceType    string     `json:"service_type,omitempty"`
	Address        *Address   `json:"address,omitempty"`
	IssueDate      *time.Time `json:"issue_date,omitempty"`
	SourceDocument string     `json:"source_document,omitempty"`
}

// BankAccount is a bank statement or account certificate.
type BankAccount struct {
	BankName       string     `json:"bank_name,omitempty"`
	CLABE          string     `json:"clabe,omitempty"`
	HolderName     string     `json:"holder_name,omitempty"`
	StatementName  string     `json:"statement_name,omitempty"`
	Address        *Address   `json:"address,omitempty"`
	StatementDate  *time.Time `json:"statement_date,omitempty"`
	SourceDocument string     `json:"source_document,omitempty"`
}

// IdentityName picks the name used to match the account to the customer.
// Demo data carries the reliable name in the statement header.
func (b BankAccount) IdentityName(demoMode bool) string {
	if demoMode && b.StatementName != "" {
		return b.StatementName
	}
	if b.HolderName != "" {
		return b.HolderName
	}
	return b.StatementName
}

// CustomerName is the name proof-of-address documents must be issued to.
func (p *Profile) CustomerName() string {
	if p.CompanyIdentity != nil && p.CompanyIdentity.RazonSocial != "" {
		return p.CompanyIdentity.RazonSocial
	}
	if p.CompanyTaxProfile != nil && p.CompanyTaxProfile.Name != "" {
		return p.CompanyTaxProfile.Name
	}
	if p.RepresentativeIdentity != nil {
		return p.RepresentativeIdentity.HolderName()
	}
	if p.PassportIdentity != nil {
		return p.PassportIdentity.FullName
	}
	return ""
}

// Clone returns a deep copy. Slices of value records are copied so callers
// can backfill fields on the copy without touching the original.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.CompanyIdentity != nil {
		ci := *p.CompanyIdentity
		ci.FoundingAddress = p.CompanyIdentity.FoundingAddress.Clone()
		ci.Shareholders = append([]Shareholder(nil), p.CompanyIdentity.Shareholders...)
		ci.LegalRepresentatives = append([]LegalRepresentative(nil), p.CompanyIdentity.LegalRepresentatives...)
		c.CompanyIdentity = &ci
	}
	if p.CompanyTaxProfile != nil {
		tp := *p.CompanyTaxProfile
		tp.FiscalAddress = p.CompanyTaxProfile.FiscalAddress.Clone()
		tp.EconomicActivities = append([]EconomicActivity(nil), p.CompanyTaxProfile.EconomicActivities...)
		c.CompanyTaxProfile = &tp
	}
	if p.PassportIdentity != nil {
		pp := *p.PassportIdentity
		c.PassportIdentity = &pp
	}
	c.AddressEvidence = append([]AddressEvidence(nil), p.AddressEvidence...)
	for i := range c.AddressEvidence {
		c.AddressEvidence[i].Address = c.AddressEvidence[i].Address.Clone()
	}
	c.BankAccounts = append([]BankAccount(nil), p.BankAccounts...)
	for i := range c.BankAccounts {
		c.BankAccounts[i].Address = c.BankAccounts[i].Address.Clone()
	}
	c.PowersOfAttorney = append([]PowerOfAttorney(nil), p.PowersOfAttorney...)
	c.CurrentFiscalAddress = p.CurrentFiscalAddress.Clone()
	c.CurrentOperationalAddress = p.CurrentOperationalAddress.Clone()
	c.FoundingAddress = p.FoundingAddress.Clone()
	return &c
}
