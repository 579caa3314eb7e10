package domain

// TraceSection is the audit trail behind a decision. It is derived from the
// profile on its own and never feeds the score.
type TraceSection struct {
	UBOs            []UBOTrace       `json:"ubos"`
	AddressEvidence []AddressTrace   `json:"address_evidence"`
	Powers          []PowerTrace     `json:"powers"`
	Freshness       []FreshnessTrace `json:"freshness"`
}

// UBOTrace shows the ownership and voting math for one shareholder.
type UBOTrace struct {
	Name             string   `json:"name"`
	Shares           float64  `json:"shares"`
	OwnershipPercent float64  `json:"ownership_percent"`
	VotingPercent    float64  `json:"voting_percent"`
	HasVotingRights  bool     `json:"has_voting_rights"`
	VotingBasis      string   `json:"voting_basis"`
	IsUBO            bool     `json:"is_ubo"`
	Reason           string   `json:"reason"`
	Sources          []string `json:"sources,omitempty"`
}

// AddressRole is the purpose an address plays in the file.
type AddressRole string

const (
	AddressRoleFounding    AddressRole = "founding"
	AddressRoleFiscal      AddressRole = "fiscal"
	AddressRoleOperational AddressRole = "operational"
)

// AddressTrace lists every document that supports an address role.
type AddressTrace struct {
	Role      AddressRole `json:"role"`
	Address   string      `json:"address"`
	Citations []string    `json:"citations,omitempty"`
}

// PowerTrace shows which canonical powers a signatory holds.
type PowerTrace struct {
	Name        string   `json:"name"`
	Role        string   `json:"role,omitempty"`
	Scope       string   `json:"scope"`
	Matched     []string `json:"matched,omitempty"`
	Missing     []string `json:"missing,omitempty"`
	Limitations []string `json:"limitations,omitempty"`
	Sources     []string `json:"sources,omitempty"`
}

// FreshnessTrace records the age of a dated document against its limit.
type FreshnessTrace struct {
	Check      string   `json:"check"`
	Documents  []string `json:"documents,omitempty"`
	AgeDays    *int     `json:"age_days,omitempty"`
	MaxAgeDays int      `json:"max_age_days"`
	Fresh      bool     `json:"fresh"`
}
