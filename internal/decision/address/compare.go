package address

import (
	"math"
	"strings"

	"kycengine/internal/domain"
	kstrings "kycengine/pkg/platform/strings"
)

// Component weights. They sum to 1.
const (
	weightPostalCode = 0.30
	weightColonia    = 0.25
	weightMunicipio  = 0.20
	weightEstado     = 0.10
	weightStreet     = 0.10
	weightNumber     = 0.05

	// EquivalenceThreshold is the confidence at which two addresses are
	// considered the same place.
	EquivalenceThreshold = 0.75

	streetOverlapThreshold = 0.7
)

// Comparison is the outcome of CompareAddresses.
type Comparison struct {
	Confidence float64
	Equivalent bool
	// Matched lists the components that agreed, in weight order.
	Matched []string
}

// CompareAddresses scores a against b. The score is symmetric.
func CompareAddresses(a, b *domain.Address) Comparison {
	if a.IsZero() || b.IsZero() {
		return Comparison{}
	}
	na, nb := Normalize(a), Normalize(b)

	var score float64
	var matched []string
	add := func(ok bool, weight float64, name string) {
		if ok {
			score += weight
			matched = append(matched, name)
		}
	}

	add(equalNonEmpty(na.CodigoPostal, nb.CodigoPostal), weightPostalCode, "codigo_postal")
	add(equalNonEmpty(na.Colonia, nb.Colonia), weightColonia, "colonia")
	add(municipioMatch(na.Municipio, nb.Municipio), weightMunicipio, "municipio")
	add(equalNonEmpty(na.Estado, nb.Estado), weightEstado, "estado")
	add(streetMatch(na.Street, nb.Street), weightStreet, "street")
	add(equalNonEmpty(na.Number, nb.Number), weightNumber, "number")

	confidence := math.Round(score*10000) / 10000
	return Comparison{
		Confidence: confidence,
		Equivalent: confidence >= EquivalenceThreshold,
		Matched:    matched,
	}
}

// Equivalent is shorthand for CompareAddresses(a, b).Equivalent.
func Equivalent(a, b *domain.Address) bool {
	return CompareAddresses(a, b).Equivalent
}

func equalNonEmpty(a, b string) bool {
	return a != "" && a == b
}

func municipioMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func streetMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return kstrings.TokenOverlap(strings.Fields(a), strings.Fields(b)) > streetOverlapThreshold
}
