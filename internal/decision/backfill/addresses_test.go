package backfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycengine/internal/domain"
)

var (
	fiscal  = &domain.Address{Street: "Av. Reforma", ExteriorNumber: "100", Colonia: "Juárez", CodigoPostal: "06600", Estado: "CDMX"}
	billed  = &domain.Address{Street: "Calle Durango", ExteriorNumber: "12", Colonia: "Roma Norte", CodigoPostal: "06700", Estado: "CDMX"}
	founded = &domain.Address{Street: "Calle Madero", ExteriorNumber: "1", Colonia: "Centro", CodigoPostal: "06000", Estado: "CDMX"}
)

func TestAddresses(t *testing.T) {
	t.Run("fills every role without touching the input", func(t *testing.T) {
		in := &domain.Profile{
			CompanyIdentity:   &domain.CompanyIdentity{RazonSocial: "Grupo Alfa SA de CV", FoundingAddress: founded},
			CompanyTaxProfile: &domain.CompanyTaxProfile{Name: "GRUPO ALFA SA DE CV", FiscalAddress: fiscal},
			AddressEvidence:   []domain.AddressEvidence{{HolderName: "Grupo Alfa S.A. de C.V.", Address: billed}},
		}

		out := Addresses(in, domain.EntityPersonaMoral, false)

		assert.Equal(t, fiscal, out.CurrentFiscalAddress)
		assert.Equal(t, founded, out.FoundingAddress)
		assert.Equal(t, billed, out.CurrentOperationalAddress)
		assert.NotSame(t, fiscal, out.CurrentFiscalAddress)

		assert.Nil(t, in.CurrentFiscalAddress)
		assert.Nil(t, in.CurrentOperationalAddress)
		assert.Nil(t, in.FoundingAddress)
	})

	t.Run("operational falls back to fiscal", func(t *testing.T) {
		in := &domain.Profile{
			CompanyTaxProfile: &domain.CompanyTaxProfile{Name: "Juan Pérez López", FiscalAddress: fiscal},
			AddressEvidence:   []domain.AddressEvidence{{HolderName: "Pedro Gómez Ruiz", Address: billed}},
		}
		out := Addresses(in, domain.EntityPersonaFisicaEmpresarial, false)
		assert.Equal(t, fiscal, out.CurrentOperationalAddress)
	})

	t.Run("resolved addresses are kept", func(t *testing.T) {
		in := &domain.Profile{
			CompanyTaxProfile:    &domain.CompanyTaxProfile{FiscalAddress: fiscal},
			CurrentFiscalAddress: billed,
		}
		out := Addresses(in, domain.EntityPersonaMoral, false)
		assert.Equal(t, billed, out.CurrentFiscalAddress)
	})

	t.Run("nil profile", func(t *testing.T) {
		out := Addresses(nil, domain.EntityUnknown, false)
		require.NotNil(t, out)
		assert.Nil(t, out.CurrentFiscalAddress)
	})
}
