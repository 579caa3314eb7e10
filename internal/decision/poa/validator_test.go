package poa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"kycengine/internal/domain"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

var (
	fiscal = &domain.Address{
		Street: "Av. Insurgentes Sur", ExteriorNumber: "1602", Colonia: "Crédito Constructor",
		Municipio: "Benito Juárez", Estado: "Ciudad de México", CodigoPostal: "03940",
	}
	elsewhere = &domain.Address{
		Street: "Calle Hidalgo", ExteriorNumber: "45", Colonia: "Centro",
		Municipio: "Monterrey", Estado: "Nuevo León", CodigoPostal: "64000",
	}
)

// ===== Proof of Address Test Suite =====
// Justification: the third-party matrix carries different penalties per
// entity type and address match, and each path is scored independently.
type ValidatorSuite struct {
	suite.Suite
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) TestBankStatementFirst() {
	s.Run("matching statement is accepted even with a third-party bill", func() {
		res := Validate(Input{
			EntityType:   domain.EntityPersonaMoral,
			CustomerName: "Grupo Alfa S.A. de C.V.",
			UtilityBills: []domain.AddressEvidence{{HolderName: "Pedro Gómez", Address: fiscal, SourceDocument: "cfe.pdf"}},
			BankAccounts: []domain.BankAccount{{HolderName: "GRUPO ALFA SA DE CV", Address: fiscal, StatementDate: date(2024, 5, 31), SourceDocument: "edo_cta.pdf"}},
		})
		s.True(res.Acceptable)
		s.Equal(SourceBankStatement, res.Source)
		s.Zero(res.Penalty)
		s.Empty(res.Flags)
		s.Equal([]string{"edo_cta.pdf"}, res.Documents)
		s.Equal(date(2024, 5, 31), res.DocumentDate)
	})

	s.Run("statement without address cannot serve", func() {
		res := Validate(Input{
			EntityType:   domain.EntityPersonaFisicaEmpresarial,
			CustomerName: "Juan Pérez López",
			BankAccounts: []domain.BankAccount{{HolderName: "Juan Pérez López", SourceDocument: "edo_cta.pdf"}},
		})
		s.False(res.Acceptable)
		s.Equal(SourceNone, res.Source)
	})

	s.Run("own statement without address leaves a third-party bill to decide", func() {
		res := Validate(Input{
			EntityType:    domain.EntityPersonaMoral,
			CustomerName:  "Grupo Alfa S.A. de C.V.",
			FiscalAddress: fiscal,
			UtilityBills:  []domain.AddressEvidence{{HolderName: "Pedro Gómez", Address: elsewhere, SourceDocument: "cfe.pdf"}},
			BankAccounts:  []domain.BankAccount{{HolderName: "GRUPO ALFA SA DE CV", SourceDocument: "edo_cta.pdf"}},
		})
		s.False(res.Acceptable)
		s.Equal(ThirdPartyCorporate, res.ThirdParty)
		s.InDelta(0.25, res.Penalty, 1e-9)
	})

	s.Run("newest addressed statement wins over a newer one without address", func() {
		res := Validate(Input{
			EntityType:   domain.EntityPersonaMoral,
			CustomerName: "Grupo Alfa S.A. de C.V.",
			BankAccounts: []domain.BankAccount{
				{HolderName: "GRUPO ALFA SA DE CV", StatementDate: date(2024, 6, 30), SourceDocument: "junio.pdf"},
				{HolderName: "GRUPO ALFA SA DE CV", Address: fiscal, StatementDate: date(2024, 5, 31), SourceDocument: "mayo.pdf"},
			},
		})
		s.True(res.Acceptable)
		s.Equal([]string{"mayo.pdf"}, res.Documents)
	})

	s.Run("demo mode reads the statement header name", func() {
		acct := domain.BankAccount{HolderName: "OTRA PERSONA", StatementName: "Juan Pérez López", Address: fiscal, SourceDocument: "edo_cta.pdf"}
		in := Input{EntityType: domain.EntityPersonaFisicaEmpresarial, CustomerName: "Juan Pérez López", BankAccounts: []domain.BankAccount{acct}}

		in.DemoMode = true
		s.Equal(SourceBankStatement, Validate(in).Source)

		in.DemoMode = false
		s.Equal(SourceNone, Validate(in).Source)
	})
}

func (s *ValidatorSuite) TestOwnUtilityBill() {
	res := Validate(Input{
		EntityType:   domain.EntityPersonaFisicaEmpresarial,
		CustomerName: "Juan Pérez López",
		UtilityBills: []domain.AddressEvidence{
			{HolderName: "María Gómez", Address: elsewhere, IssueDate: date(2024, 6, 1), SourceDocument: "telmex.pdf"},
			{HolderName: "JUAN PEREZ LOPEZ", Address: fiscal, IssueDate: date(2024, 5, 1), SourceDocument: "cfe.pdf"},
		},
	})
	s.True(res.Acceptable)
	s.Equal(SourceUtilityBill, res.Source)
	s.Equal(ThirdPartyNone, res.ThirdParty)
	s.Equal([]string{"cfe.pdf"}, res.Documents)
	s.Empty(res.Flags)
}

func (s *ValidatorSuite) TestCorporateThirdParty() {
	s.Run("different address", func() {
		res := Validate(Input{
			EntityType:    domain.EntityPersonaMoral,
			CustomerName:  "Grupo Alfa S.A. de C.V.",
			FiscalAddress: fiscal,
			UtilityBills:  []domain.AddressEvidence{{HolderName: "Pedro Gómez", Address: elsewhere, SourceDocument: "cfe.pdf"}},
		})
		s.False(res.Acceptable)
		s.Equal(ThirdPartyCorporate, res.ThirdParty)
		s.InDelta(0.25, res.Penalty, 1e-9)
		s.Require().Len(res.Flags, 1)
		s.Equal(CodeThirdPartyCorporate, res.Flags[0].Code)
		s.Equal(domain.LevelCritical, res.Flags[0].Level)
	})

	s.Run("address matches fiscal", func() {
		res := Validate(Input{
			EntityType:    domain.EntityPersonaMoral,
			CustomerName:  "Grupo Alfa S.A. de C.V.",
			FiscalAddress: fiscal,
			UtilityBills:  []domain.AddressEvidence{{HolderName: "Pedro Gómez", Address: fiscal, SourceDocument: "cfe.pdf"}},
		})
		s.False(res.Acceptable)
		s.True(res.AddressMatchesFiscal)
		s.InDelta(0.15, res.Penalty, 1e-9)
		s.Require().Len(res.Flags, 2)
		s.Equal(CodeAddressMatchFiscal, res.Flags[1].Code)
		s.Equal(domain.LevelInfo, res.Flags[1].Level)
		s.Zero(res.Flags[1].Penalty)
	})
}

func (s *ValidatorSuite) TestPersonaFisicaThirdParty() {
	tests := []struct {
		name       string
		holder     string
		addr       *domain.Address
		thirdParty ThirdParty
		acceptable bool
		penalty    float64
		level      domain.FlagLevel
	}{
		{"family elsewhere", "María López Hernández", elsewhere, ThirdPartyFamily, true, 0.05, domain.LevelWarning},
		{"family at fiscal address", "Rosa Pérez García", fiscal, ThirdPartyFamily, true, 0, domain.LevelInfo},
		{"landlord elsewhere", "Pedro Gómez Ruiz", elsewhere, ThirdPartyLandlord, false, 0.10, domain.LevelWarning},
		{"landlord at fiscal address", "Pedro Gómez Ruiz", fiscal, ThirdPartyLandlord, true, 0.05, domain.LevelWarning},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := Validate(Input{
				EntityType:    domain.EntityPersonaFisicaEmpresarial,
				CustomerName:  "Juan Pérez López",
				FiscalAddress: fiscal,
				UtilityBills:  []domain.AddressEvidence{{HolderName: tt.holder, Address: tt.addr, SourceDocument: "cfe.pdf"}},
			})
			s.Equal(tt.thirdParty, res.ThirdParty)
			s.Equal(tt.acceptable, res.Acceptable)
			s.InDelta(tt.penalty, res.Penalty, 1e-9)
			s.Require().Len(res.Flags, 1)
			s.Equal(tt.level, res.Flags[0].Level)
			s.InDelta(tt.penalty, res.Flags[0].Penalty, 1e-9)
		})
	}
}

func (s *ValidatorSuite) TestMissing() {
	s.Run("own statement without address is a warning", func() {
		res := Validate(Input{
			EntityType:   domain.EntityPersonaMoral,
			CustomerName: "Grupo Alfa S.A. de C.V.",
			BankAccounts: []domain.BankAccount{
				{HolderName: "Grupo Alfa", SourceDocument: "caratula.pdf"},
				{HolderName: "Otra Empresa SA", Address: fiscal, SourceDocument: "otra.pdf"},
			},
		})
		s.InDelta(0.10, res.Penalty, 1e-9)
		s.Require().Len(res.Flags, 1)
		s.Equal(CodeMissing, res.Flags[0].Code)
		s.Equal(domain.LevelWarning, res.Flags[0].Level)
		s.Equal([]string{"caratula.pdf"}, res.Flags[0].SupportingDocs)
	})

	s.Run("another party's statement does not soften", func() {
		res := Validate(Input{
			EntityType:   domain.EntityPersonaMoral,
			CustomerName: "Grupo Alfa S.A. de C.V.",
			BankAccounts: []domain.BankAccount{{HolderName: "Otra Empresa SA", Address: fiscal, SourceDocument: "otra.pdf"}},
		})
		s.InDelta(0.20, res.Penalty, 1e-9)
		s.Require().Len(res.Flags, 1)
		s.Equal(domain.LevelCritical, res.Flags[0].Level)
		s.Empty(res.Flags[0].SupportingDocs)
	})

	s.Run("nothing at all", func() {
		res := Validate(Input{EntityType: domain.EntityPersonaMoral, CustomerName: "Grupo Alfa"})
		s.InDelta(0.20, res.Penalty, 1e-9)
		s.Require().Len(res.Flags, 1)
		s.Equal(domain.LevelCritical, res.Flags[0].Level)
	})
}

func TestSurnames(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"two surnames", "Juan Pérez López", []string{"LOPEZ", "PEREZ"}},
		{"compound maternal", "María Pérez de la Cruz", []string{"DE LA CRUZ", "CRUZ", "PEREZ"}},
		{"single surname", "Juan Pérez", []string{"PEREZ"}},
		{"single token", "Cher", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Surnames(tt.in))
		})
	}
}

func TestShareSurname(t *testing.T) {
	require.True(t, ShareSurname("Juan Pérez López", "Ana Gómez Pérez"))
	require.True(t, ShareSurname("Luis Ramírez de la Cruz", "Rosa Cruz Soto"))
	require.False(t, ShareSurname("Juan Pérez López", "Pedro Gómez Ruiz"))
}
