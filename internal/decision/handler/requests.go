package handler

import (
	"fmt"
	"strings"
	"time"

	"kycengine/internal/domain"
	dErrors "kycengine/pkg/domain-errors"
	kstrings "kycengine/pkg/platform/strings"
)

const (
	asOfLayout    = "2006-01-02"
	maxBatchItems = 500
)

// ValidateRequest is the HTTP request body for POST /kyc/validate and
// POST /kyc/trace.
type ValidateRequest struct {
	// AsOf is the reference date (YYYY-MM-DD). Empty means today.
	AsOf    string         `json:"as_of,omitempty"`
	Profile ProfilePayload `json:"profile"`

	// Parsed values (populated by Validate)
	parsedAsOf    time.Time
	parsedProfile *domain.Profile
}

// BatchValidateRequest is the HTTP request body for POST /kyc/validate/batch.
type BatchValidateRequest struct {
	AsOf     string           `json:"as_of,omitempty"`
	Profiles []ProfilePayload `json:"profiles"`

	parsedAsOf     time.Time
	parsedProfiles []*domain.Profile
}

// ProfilePayload is a Profile on the wire. The identity document is a
// tagged union keyed by "kind".
type ProfilePayload struct {
	domain.Profile
	RepresentativeIdentity *IdentityPayload `json:"representative_identity,omitempty"`
}

// IdentityPayload carries any identity document shape.
type IdentityPayload struct {
	Kind           string     `json:"kind"`
	Type           string     `json:"type,omitempty"`
	FullName       string     `json:"full_name"`
	CURP           string     `json:"curp,omitempty"`
	ClaveElector   string     `json:"clave_elector,omitempty"`
	Nationality    string     `json:"nationality,omitempty"`
	IssuingCountry string     `json:"issuing_country,omitempty"`
	DocumentNumber string     `json:"document_number,omitempty"`
	IssueDate      *time.Time `json:"issue_date,omitempty"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	SourceDocument string     `json:"source_document,omitempty"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ValidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	asOf, err := parseAsOf(r.AsOf)
	if err != nil {
		return err
	}
	r.parsedAsOf = asOf

	p, err := r.Profile.toDomain()
	if err != nil {
		return err
	}
	r.parsedProfile = p
	return nil
}

// ParsedAsOf returns the validated reference date; zero when not given.
func (r *ValidateRequest) ParsedAsOf() time.Time {
	return r.parsedAsOf
}

// ParsedProfile returns the domain profile.
func (r *ValidateRequest) ParsedProfile() *domain.Profile {
	return r.parsedProfile
}

// Validate validates and parses the batch request.
func (r *BatchValidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	// Size validation (fail fast)
	if len(r.Profiles) == 0 {
		return dErrors.New(dErrors.CodeValidation, "profiles must not be empty")
	}
	if len(r.Profiles) > maxBatchItems {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("profiles must hold at most %d entries", maxBatchItems))
	}

	asOf, err := parseAsOf(r.AsOf)
	if err != nil {
		return err
	}
	r.parsedAsOf = asOf

	r.parsedProfiles = make([]*domain.Profile, 0, len(r.Profiles))
	for i := range r.Profiles {
		p, err := r.Profiles[i].toDomain()
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("profiles[%d]: %s", i, err.Error()))
		}
		r.parsedProfiles = append(r.parsedProfiles, p)
	}
	return nil
}

// ParsedAsOf returns the validated reference date; zero when not given.
func (r *BatchValidateRequest) ParsedAsOf() time.Time {
	return r.parsedAsOf
}

// ParsedProfiles returns the domain profiles in request order.
func (r *BatchValidateRequest) ParsedProfiles() []*domain.Profile {
	return r.parsedProfiles
}

func parseAsOf(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(asOfLayout, s)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "as_of must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func (p *ProfilePayload) toDomain() (*domain.Profile, error) {
	out := p.Profile
	out.CustomerID = strings.TrimSpace(out.CustomerID)
	if len(out.CustomerID) > 128 {
		return nil, dErrors.New(dErrors.CodeValidation, "customer_id must be at most 128 characters")
	}
	if p.RepresentativeIdentity != nil {
		doc, err := p.RepresentativeIdentity.toDomain()
		if err != nil {
			return nil, err
		}
		out.RepresentativeIdentity = doc
	}
	return &out, nil
}

func (d *IdentityPayload) toDomain() (domain.IdentityDocument, error) {
	docType := strings.ToUpper(strings.TrimSpace(d.Type))
	switch domain.DocumentKind(strings.TrimSpace(d.Kind)) {
	case domain.DocumentKindNationalID:
		t := domain.NationalIDType(docType)
		switch t {
		case "":
			t = domain.NationalIDINE
		case domain.NationalIDINE, domain.NationalIDIFE:
		default:
			return nil, dErrors.New(dErrors.CodeValidation, "representative_identity.type must be INE or IFE for a national_id")
		}
		return domain.NationalID{
			Type:           t,
			FullName:       d.FullName,
			CURP:           d.CURP,
			ClaveElector:   d.ClaveElector,
			IssueDate:      d.IssueDate,
			ExpiryDate:     d.ExpiryDate,
			SourceDocument: d.SourceDocument,
		}, nil
	case domain.DocumentKindImmigrationStatus:
		t, ok := immigrationType(docType)
		if !ok {
			return nil, dErrors.New(dErrors.CodeValidation, "representative_identity.type must be FMM, RESIDENTE_PERMANENTE, RESIDENTE_TEMPORAL, FM2 or FM3 for an immigration_status")
		}
		return domain.ImmigrationStatus{
			DocumentType:   t,
			FullName:       d.FullName,
			Nationality:    d.Nationality,
			CURP:           d.CURP,
			DocumentNumber: d.DocumentNumber,
			IssueDate:      d.IssueDate,
			ExpiryDate:     d.ExpiryDate,
			SourceDocument: d.SourceDocument,
		}, nil
	case domain.DocumentKindPassport:
		return domain.Passport{
			FullName:       d.FullName,
			Nationality:    d.Nationality,
			IssuingCountry: d.IssuingCountry,
			DocumentNumber: d.DocumentNumber,
			IssueDate:      d.IssueDate,
			ExpiryDate:     d.ExpiryDate,
			SourceDocument: d.SourceDocument,
		}, nil
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "representative_identity.kind must be national_id, immigration_status or passport")
	}
}

// immigrationTypeAliases maps the spellings seen on extracted cards to the
// canonical type. Keys use underscores in place of spaces and hyphens.
var immigrationTypeAliases = map[string]domain.ImmigrationDocumentType{
	"RESIDENCIA_PERMANENTE":           domain.ImmigrationResidentePermanente,
	"TARJETA_DE_RESIDENTE_PERMANENTE": domain.ImmigrationResidentePermanente,
	"RESIDENCIA_TEMPORAL":             domain.ImmigrationResidenteTemporal,
	"TARJETA_DE_RESIDENTE_TEMPORAL":   domain.ImmigrationResidenteTemporal,
}

// immigrationType resolves an upper-cased document type to a known
// immigration type.
func immigrationType(docType string) (domain.ImmigrationDocumentType, bool) {
	key := strings.NewReplacer(" ", "_", "-", "_").Replace(kstrings.FoldAccents(docType))
	if t, ok := immigrationTypeAliases[key]; ok {
		return t, true
	}
	t := domain.ImmigrationDocumentType(key)
	switch t {
	case domain.ImmigrationFMM, domain.ImmigrationResidentePermanente, domain.ImmigrationResidenteTemporal,
		domain.ImmigrationFM2, domain.ImmigrationFM3:
		return t, true
	}
	return "", false
}
