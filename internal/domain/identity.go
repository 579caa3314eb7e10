package domain

import (
	"strings"
	"time"
)

// DocumentKind names the concrete shape of an IdentityDocument.
type DocumentKind string

const (
	DocumentKindNationalID        DocumentKind = "national_id"
	DocumentKindImmigrationStatus DocumentKind = "immigration_status"
	DocumentKindPassport          DocumentKind = "passport"
)

// IdentityDocument is one of NationalID, ImmigrationStatus or Passport. The
// set is closed; switch on the concrete type rather than probing fields.
type IdentityDocument interface {
	Kind() DocumentKind
	HolderName() string
	Source() string
	isIdentityDocument()
}

// NationalIDType distinguishes the current INE credential from legacy IFE ones.
type NationalIDType string

const (
	NationalIDINE NationalIDType = "INE"
	NationalIDIFE NationalIDType = "IFE"
)

// NationalID is a Mexican voter credential. Holding one implies Mexican
// nationality.
type NationalID struct {
	Type           NationalIDType
	FullName       string
	CURP           string
	ClaveElector   string
	IssueDate      *time.Time
	ExpiryDate     *time.Time
	SourceDocument string
}

// ImmigrationDocumentType enumerates the generations of Mexican status cards.
type ImmigrationDocumentType string

const (
	ImmigrationFMM                 ImmigrationDocumentType = "FMM"
	ImmigrationResidentePermanente ImmigrationDocumentType = "RESIDENTE_PERMANENTE"
	ImmigrationResidenteTemporal   ImmigrationDocumentType = "RESIDENTE_TEMPORAL"
	ImmigrationFM2                 ImmigrationDocumentType = "FM2"
	ImmigrationFM3                 ImmigrationDocumentType = "FM3"
)

// ImmigrationStatus is an INM-issued residence or visitor document.
type ImmigrationStatus struct {
	DocumentType   ImmigrationDocumentType
	FullName       string
	Nationality    string
	CURP           string
	DocumentNumber string
	IssueDate      *time.Time
	ExpiryDate     *time.Time
	SourceDocument string
}

// Passport is a travel document of any country.
type Passport struct {
	FullName       string     `json:"full_name"`
	Nationality    string     `json:"nationality,omitempty"`
	IssuingCountry string     `json:"issuing_country,omitempty"`
	DocumentNumber string     `json:"document_number,omitempty"`
	IssueDate      *time.Time `json:"issue_date,omitempty"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	SourceDocument string     `json:"source_document,omitempty"`
}

func (NationalID) Kind() DocumentKind        { return DocumentKindNationalID }
func (ImmigrationStatus) Kind() DocumentKind { return DocumentKindImmigrationStatus }
func (Passport) Kind() DocumentKind          { return DocumentKindPassport }

func (d NationalID) HolderName() string        { return d.FullName }
func (d ImmigrationStatus) HolderName() string { return d.FullName }
func (d Passport) HolderName() string          { return d.FullName }

func (d NationalID) Source() string        { return d.SourceDocument }
func (d ImmigrationStatus) Source() string { return d.SourceDocument }
func (d Passport) Source() string          { return d.SourceDocument }

func (NationalID) isIdentityDocument()        {}
func (ImmigrationStatus) isIdentityDocument() {}
func (Passport) isIdentityDocument()          {}

var mexicanNationalityTokens = []string{"MEX", "MEXICO", "MEXICANA", "MEXICANO", "MÉXICO"}

// IsMexican reports whether the passport was issued to a Mexican national.
// Nationality wins over issuing country when both are present.
func (d Passport) IsMexican() bool {
	n := d.Nationality
	if strings.TrimSpace(n) == "" {
		n = d.IssuingCountry
	}
	return IsMexicanNationality(n)
}

// IsMexicanNationality matches the common spellings of Mexican nationality.
func IsMexicanNationality(n string) bool {
	n = strings.ToUpper(strings.TrimSpace(n))
	for _, tok := range mexicanNationalityTokens {
		if n == tok {
			return true
		}
	}
	return false
}
