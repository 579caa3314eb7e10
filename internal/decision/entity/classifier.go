// Package entity decides the legal-entity category of a customer and checks
// that the incorporation deed and tax registration describe the same company.
package entity

import (
	"strings"

	"kycengine/internal/domain"
	kstrings "kycengine/pkg/platform/strings"
)

var businessRegimeKeywords = []string{
	"EMPRESARIAL",
	"PROFESIONAL",
	"SIMPLIFICADO DE CONFIANZA",
	"RESICO",
	"INCORPORACION FISCAL",
	"ARRENDAMIENTO",
	"PLATAFORMAS TECNOLOGICAS",
}

// Classify determines the entity category. Priority:
//  1. An incorporation deed always means persona moral.
//  2. A 3-letter RFC means persona moral.
//  3. A 4-letter RFC is split by ClassifyPersonaFisica.
//  4. Otherwise unknown.
func Classify(p *domain.Profile) domain.EntityType {
	if p == nil {
		return domain.EntityUnknown
	}
	if p.CompanyIdentity != nil {
		return domain.EntityPersonaMoral
	}
	tax := p.CompanyTaxProfile
	if tax == nil {
		return domain.EntityUnknown
	}
	switch {
	case IsCorporateRFC(tax.RFC):
		return domain.EntityPersonaMoral
	case IsPersonalRFC(tax.RFC):
		return ClassifyPersonaFisica(tax.TaxRegime, tax.EconomicActivities)
	default:
		return domain.EntityUnknown
	}
}

// ClassifyPersonaFisica splits individuals into those with business tax
// obligations and those without. An explicit "sin obligaciones" regime wins;
// any business regime keyword or declared economic activity means
// empresarial; the default is sin obligaciones.
func ClassifyPersonaFisica(regime string, activities []domain.EconomicActivity) domain.EntityType {
	r := kstrings.NormalizeName(regime)
	if strings.Contains(r, "SIN OBLIGACIONES") {
		return domain.EntityPersonaFisicaSinObligaciones
	}
	for _, kw := range businessRegimeKeywords {
		if strings.Contains(r, kw) {
			return domain.EntityPersonaFisicaEmpresarial
		}
	}
	for _, a := range activities {
		if strings.TrimSpace(a.Description) != "" {
			return domain.EntityPersonaFisicaEmpresarial
		}
	}
	return domain.EntityPersonaFisicaSinObligaciones
}
