package trace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"kycengine/internal/domain"
)

var asOf = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func profile() *domain.Profile {
	fiscal := &domain.Address{Street: "Av. Insurgentes Sur", ExteriorNumber: "1602", Colonia: "Crédito Constructor", Municipio: "Benito Juárez", Estado: "CDMX", CodigoPostal: "03940"}
	return &domain.Profile{
		CustomerID: "cust-1",
		CompanyIdentity: &domain.CompanyIdentity{
			RazonSocial: "Grupo Alfa S.A. de C.V.",
			RFC:         "GAL010101AB1",
			Shareholders: []domain.Shareholder{
				{Name: "Ana Ruiz", Shares: 700},
				{Name: "Luis Soto", Shares: 300, ShareSeries: "Serie B"},
			},
			LegalRepresentatives: []domain.LegalRepresentative{{
				Name: "Ana Ruiz", Role: "Administrador Único", CanSignContracts: true,
				Powers: []string{"pleitos y cobranzas", "actos de administración", "actos de dominio", "títulos de crédito"},
			}},
			FoundingAddress: &domain.Address{Street: "Calle Madero", ExteriorNumber: "1", Colonia: "Centro", Municipio: "Cuauhtémoc", Estado: "CDMX", CodigoPostal: "06000"},
			SourceDocument:  "acta.pdf",
		},
		CompanyTaxProfile: &domain.CompanyTaxProfile{
			RFC: "GAL010101AB1", Name: "GRUPO ALFA SA DE CV", FiscalAddress: fiscal,
			IssueDate: date(2024, 1, 15), SourceDocument: "csf.pdf",
		},
		AddressEvidence: []domain.AddressEvidence{{
			HolderName: "Grupo Alfa SA de CV", Address: fiscal, IssueDate: date(2024, 6, 1), SourceDocument: "cfe.pdf",
		}},
		BankAccounts: []domain.BankAccount{{HolderName: "Grupo Alfa", SourceDocument: "caratula.pdf"}},
	}
}

// ===== Trace Builder Test Suite =====
// Justification: the trace is consumed by reviewers, so each section is
// checked for the figures and citations it reports.
type BuilderSuite struct {
	suite.Suite
	builder *Builder
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

func (s *BuilderSuite) SetupTest() {
	s.builder = NewBuilder(Config{})
}

func (s *BuilderSuite) TestUBOs() {
	tr := s.builder.Build(profile(), asOf)
	s.Require().Len(tr.UBOs, 2)

	ana := tr.UBOs[0]
	s.Equal("Ana Ruiz", ana.Name)
	s.InDelta(70.0, ana.OwnershipPercent, 1e-9)
	s.InDelta(100.0, ana.VotingPercent, 1e-9)
	s.True(ana.IsUBO)
	s.Equal([]string{"acta.pdf"}, ana.Sources)

	luis := tr.UBOs[1]
	s.False(luis.HasVotingRights)
	s.False(luis.IsUBO)
	s.Equal("share_series", luis.VotingBasis)
	s.Contains(luis.Reason, "no voting rights")
}

func (s *BuilderSuite) TestAddressEvidence() {
	tr := s.builder.Build(profile(), asOf)
	s.Require().Len(tr.AddressEvidence, 3)

	s.Equal(domain.AddressRoleFounding, tr.AddressEvidence[0].Role)
	s.Require().Len(tr.AddressEvidence[0].Citations, 1)
	s.Contains(tr.AddressEvidence[0].Citations[0], "acta.pdf")

	fiscal := tr.AddressEvidence[1]
	s.Equal(domain.AddressRoleFiscal, fiscal.Role)
	s.Len(fiscal.Citations, 2)
	s.Contains(fiscal.Citations[0], "csf.pdf")
	s.Contains(fiscal.Citations[1], "cfe.pdf")

	s.Equal(domain.AddressRoleOperational, tr.AddressEvidence[2].Role)
}

func (s *BuilderSuite) TestPowers() {
	tr := s.builder.Build(profile(), asOf)
	s.Require().Len(tr.Powers, 1)
	s.Equal("full", tr.Powers[0].Scope)
	s.Len(tr.Powers[0].Matched, 4)
	s.Empty(tr.Powers[0].Missing)
}

func (s *BuilderSuite) TestFreshness() {
	tr := s.builder.Build(profile(), asOf)
	s.Require().Len(tr.Freshness, 3)

	poa := tr.Freshness[0]
	s.Equal("proof_of_address", poa.Check)
	s.Require().NotNil(poa.AgeDays)
	s.Equal(29, *poa.AgeDays)
	s.True(poa.Fresh)

	csf := tr.Freshness[1]
	s.Equal("constancia_fiscal", csf.Check)
	s.Require().NotNil(csf.AgeDays)
	s.Equal(167, *csf.AgeDays)
	s.False(csf.Fresh)

	bank := tr.Freshness[2]
	s.Nil(bank.AgeDays)
	s.False(bank.Fresh)
}

func TestBuildDoesNotModifyProfile(t *testing.T) {
	p := profile()
	before := p.Clone()
	NewBuilder(Config{}).Build(p, asOf)
	require.Equal(t, before, p)
}

func TestBuildEmptyProfile(t *testing.T) {
	tr := NewBuilder(Config{}).Build(nil, asOf)
	assert.Empty(t, tr.UBOs)
	assert.Empty(t, tr.AddressEvidence)
	assert.Empty(t, tr.Powers)
	assert.Empty(t, tr.Freshness)
}
