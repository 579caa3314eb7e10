package signatory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"kycengine/internal/domain"
)

var generalPowers = []string{
	"Poder general para pleitos y cobranzas",
	"Poder general para actos de administración",
	"Poder general para actos de dominio",
	"Facultad para otorgar y suscribir títulos de crédito",
}

type ResolverSuite struct {
	suite.Suite
	resolver *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.resolver = NewResolver(DefaultPhraseTable())
}

func (s *ResolverSuite) classify(rep domain.LegalRepresentative) Authority {
	return s.resolver.Classify(Record{Representative: rep, Source: "acta.pdf"})
}

func (s *ResolverSuite) TestClassify() {
	s.Run("all four grants is full", func() {
		a := s.classify(domain.LegalRepresentative{Name: "Ana Ruiz", Role: "Administrador Único", Powers: generalPowers, CanSignContracts: true})
		s.Equal(ScopeFull, a.Scope)
		s.Equal(CanonicalPowers, a.Matched)
		s.Empty(a.Missing)
		s.Equal([]string{"acta.pdf"}, a.Sources)
	})

	s.Run("single fragment with all grants", func() {
		a := s.classify(domain.LegalRepresentative{
			Name:             "Ana Ruiz",
			Powers:           []string{"Poder general para pleitos y cobranzas, actos de administración y de dominio, así como para suscribir títulos de crédito, con todas las facultades generales y aun las que requieran cláusula especial"},
			CanSignContracts: true,
		})
		s.Equal(ScopeFull, a.Scope)
	})

	s.Run("dominio phrasing variants", func() {
		fragments := map[string]string{
			"y dominio":         "Pleitos y cobranzas, actos de administración y dominio, y para suscribir títulos de crédito",
			"y de dominio":      "Pleitos y cobranzas, actos de administración y de dominio, y para suscribir títulos de crédito",
			"actos de dominio":  "Pleitos y cobranzas, actos de administración, actos de dominio y títulos de crédito",
			"de riguroso":       "Pleitos y cobranzas, actos de administración y de riguroso dominio, títulos de crédito",
			"actos de riguroso": "Pleitos y cobranzas, actos de administración, actos de riguroso dominio, títulos de crédito",
		}
		for name, fragment := range fragments {
			a := s.classify(domain.LegalRepresentative{Name: "Ana Ruiz", Powers: []string{fragment}, CanSignContracts: true})
			s.Equal(ScopeFull, a.Scope, name)
			s.Equal(CanonicalPowers, a.Matched, name)
		}
	})

	s.Run("joint exercise clause does not restrict", func() {
		a := s.classify(domain.LegalRepresentative{
			Name:             "Ana Ruiz",
			Powers:           []string{"Poder general para pleitos y cobranzas, actos de administración y de dominio y para suscribir títulos de crédito, que podrá ejercer solo o conjuntamente con otros apoderados"},
			CanSignContracts: true,
		})
		s.Equal(ScopeFull, a.Scope)
		s.Empty(a.Limitations)
	})

	s.Run("solo still restricts outside a joint exercise clause", func() {
		a := s.classify(domain.LegalRepresentative{
			Name: "Ana Ruiz",
			Powers: []string{
				generalPowers[0],
				"Actos de administración solo para trámites ante el IMSS, que podrá ejercer sola o conjuntamente",
				generalPowers[2],
				generalPowers[3],
			},
			CanSignContracts: true,
		})
		s.Equal(ScopeLimited, a.Scope)
		s.Equal([]string{`actos de administracion restricted by "solo"`}, a.Limitations)
	})

	s.Run("not empowered to sign is none", func() {
		a := s.classify(domain.LegalRepresentative{Name: "Ana Ruiz", Powers: generalPowers, CanSignContracts: false})
		s.Equal(ScopeNone, a.Scope)
		s.Contains(a.Limitations, "not empowered to sign contracts")
	})

	s.Run("officer title without apoderado is none", func() {
		a := s.classify(domain.LegalRepresentative{Name: "Luis Mena", Role: "Secretario del Consejo", Powers: generalPowers, CanSignContracts: true})
		s.Equal(ScopeNone, a.Scope)
	})

	s.Run("officer who is also apoderado keeps powers", func() {
		a := s.classify(domain.LegalRepresentative{Name: "Luis Mena", Role: "Comisario y Apoderado", Powers: generalPowers, CanSignContracts: true})
		s.Equal(ScopeFull, a.Scope)
	})

	s.Run("missing grant is limited", func() {
		a := s.classify(domain.LegalRepresentative{Name: "Eva Díaz", Powers: generalPowers[:2], CanSignContracts: true})
		s.Equal(ScopeLimited, a.Scope)
		s.Equal([]Power{PowerDominio, PowerTitulosCredito}, a.Missing)
	})

	s.Run("especial label caps at limited", func() {
		powers := append([]string{"Poder especial para trámites bancarios"}, generalPowers...)
		a := s.classify(domain.LegalRepresentative{Name: "Eva Díaz", Powers: powers, CanSignContracts: true})
		s.Equal(ScopeLimited, a.Scope)
		s.NotEmpty(a.Limitations)
	})

	s.Run("restricted administration caps at limited", func() {
		powers := []string{
			generalPowers[0],
			"Actos de administración únicamente en materia laboral",
			generalPowers[2],
			generalPowers[3],
		}
		a := s.classify(domain.LegalRepresentative{Name: "Eva Díaz", Powers: powers, CanSignContracts: true})
		s.Equal(ScopeLimited, a.Scope)
		s.Len(a.Matched, 4)
		s.Contains(a.Limitations[0], "actos de administracion restricted")
	})

	s.Run("no matched phrase is none", func() {
		a := s.classify(domain.LegalRepresentative{Name: "Eva Díaz", Role: "Director", Powers: []string{"Representar a la sociedad"}, CanSignContracts: true})
		s.Equal(ScopeNone, a.Scope)
		s.Len(a.Missing, 4)
	})
}

func (s *ResolverSuite) TestResolveMergesByName() {
	records := []Record{
		{
			Representative: domain.LegalRepresentative{Name: "Ana Ruiz", Role: "Apoderada", Powers: generalPowers[:2], CanSignContracts: true},
			Source:         "acta.pdf",
		},
		{
			Representative: domain.LegalRepresentative{Name: "Luis Mena", Role: "Comisario", CanSignContracts: false},
			Source:         "acta.pdf",
		},
		{
			Representative: domain.LegalRepresentative{Name: "ANA RUIZ", Powers: generalPowers, CanSignContracts: true},
			Source:         "poder_2021.pdf",
		},
	}

	auths := s.resolver.Resolve(records)
	s.Require().Len(auths, 2)

	ana := auths[0]
	s.Equal("Ana Ruiz", ana.Name)
	s.Equal(ScopeFull, ana.Scope)
	s.Equal(CanonicalPowers, ana.Matched)
	s.Empty(ana.Missing)
	s.Empty(ana.Limitations)
	s.Equal([]string{"acta.pdf", "poder_2021.pdf"}, ana.Sources)
	s.Equal("Apoderada", ana.Role)

	s.Equal(ScopeNone, auths[1].Scope)
	s.True(HasFull(auths))
}

func (s *ResolverSuite) TestResolveIntersectsMissing() {
	records := []Record{
		{Representative: domain.LegalRepresentative{Name: "Eva Díaz", Powers: generalPowers[:1], CanSignContracts: true}, Source: "a.pdf"},
		{Representative: domain.LegalRepresentative{Name: "Eva Diaz", Powers: generalPowers[2:3], CanSignContracts: true}, Source: "b.pdf"},
	}
	auths := s.resolver.Resolve(records)
	s.Require().Len(auths, 1)
	s.Equal(ScopeLimited, auths[0].Scope)
	s.Equal([]Power{PowerPleitosCobranzas, PowerDominio}, auths[0].Matched)
	s.Equal([]Power{PowerAdministracion, PowerTitulosCredito}, auths[0].Missing)
	s.False(HasFull(auths))
	s.True(HasLimited(auths))
}

func TestCollect(t *testing.T) {
	p := &domain.Profile{
		CompanyIdentity: &domain.CompanyIdentity{
			SourceDocument:       "acta.pdf",
			LegalRepresentatives: []domain.LegalRepresentative{{Name: "Ana Ruiz"}},
		},
		PowersOfAttorney: []domain.PowerOfAttorney{
			{SourceDocument: "poder.pdf", Representatives: []domain.LegalRepresentative{{Name: "Luis Mena"}}},
		},
	}
	recs := Collect(p)
	require.Len(t, recs, 2)
	assert.Equal(t, "acta.pdf", recs[0].Source)
	assert.Equal(t, "poder.pdf", recs[1].Source)
}

func TestCompile(t *testing.T) {
	t.Run("missing power pattern is rejected", func(t *testing.T) {
		spec := DefaultPhraseSpec()
		delete(spec.Powers, PowerDominio)
		_, err := Compile(spec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "actos_de_dominio")
	})

	t.Run("invalid regex is rejected", func(t *testing.T) {
		spec := DefaultPhraseSpec()
		spec.Powers[PowerDominio] = "actos(de"
		_, err := Compile(spec)
		require.Error(t, err)
	})

	t.Run("custom vocabulary is used", func(t *testing.T) {
		spec := DefaultPhraseSpec()
		spec.OfficerTitles = []string{"vigilante"}
		table, err := Compile(spec)
		require.NoError(t, err)
		a := NewResolver(table).Classify(Record{Representative: domain.LegalRepresentative{
			Name: "Ana Ruiz", Role: "Secretaria", Powers: generalPowers, CanSignContracts: true,
		}})
		assert.Equal(t, ScopeFull, a.Scope, "secretaria is no longer an officer title")
	})
}
