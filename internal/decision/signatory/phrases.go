// Package signatory classifies the signing authority of legal
// representatives from the power-of-attorney text granted to them.
package signatory

import (
	"fmt"
	"regexp"
	"strings"

	kstrings "kycengine/pkg/platform/strings"
)

// Power is one of the four canonical Mexican power-of-attorney grants.
type Power string

const (
	PowerPleitosCobranzas Power = "pleitos_y_cobranzas"
	PowerAdministracion   Power = "actos_de_administracion"
	PowerDominio          Power = "actos_de_dominio"
	PowerTitulosCredito   Power = "titulos_de_credito"
)

// CanonicalPowers lists the grants in the order they appear in a general poder.
var CanonicalPowers = []Power{
	PowerPleitosCobranzas,
	PowerAdministracion,
	PowerDominio,
	PowerTitulosCredito,
}

// PhraseSpec is the editable form of the legal vocabulary. Patterns are
// regular expressions over lower-case text without accents; keyword lists are
// matched as whole words.
type PhraseSpec struct {
	Powers              map[Power]string `yaml:"powers"`
	LimitationLabels    []string         `yaml:"limitation_labels"`
	RestrictionKeywords []string         `yaml:"restriction_keywords"`
	// JointExercise phrases say how a grant may be exercised, not what it
	// covers. They are removed before restriction keywords are searched.
	JointExercise    []string `yaml:"joint_exercise"`
	OfficerTitles    []string `yaml:"officer_titles"`
	AttorneyKeywords []string `yaml:"attorney_keywords"`
}

// DefaultPhraseSpec is the built-in vocabulary.
func DefaultPhraseSpec() PhraseSpec {
	return PhraseSpec{
		Powers: map[Power]string{
			PowerPleitosCobranzas: `pleitos\s+y\s+cobranzas`,
			PowerAdministracion:   `actos\s+de\s+administracion`,
			PowerDominio:          `(?:actos\s+de|administracion\s+y(?:\s+de)?)\s+(?:riguroso\s+)?dominio`,
			PowerTitulosCredito:   `titulos\s+de\s+credito`,
		},
		LimitationLabels:    []string{"poder especial", "poderes especiales", "especial para", "limitado", "limitada", "limitados", "limitadas", "con limitaciones"},
		RestrictionKeywords: []string{"solo", "solamente", "unicamente", "exclusivamente", "en materia laboral", "limitado a", "limitada a"},
		JointExercise: []string{
			"solo o conjuntamente", "sola o conjuntamente", "solos o conjuntamente",
			"solo o mancomunadamente", "sola o mancomunadamente",
			"solo o en forma conjunta", "sola o en forma conjunta",
			"solo o conjunta", "sola o conjunta",
			"individual o conjuntamente", "individualmente o conjuntamente",
		},
		OfficerTitles:    []string{"secretario", "secretaria", "prosecretario", "comisario", "consejero", "vocal", "miembro del consejo", "tesorero"},
		AttorneyKeywords: []string{"apoderado", "apoderada", "apoderados"},
	}
}

// PhraseTable is a compiled PhraseSpec.
type PhraseTable struct {
	powers      map[Power]*regexp.Regexp
	limitation  *regexp.Regexp
	restriction *regexp.Regexp
	joint       *regexp.Regexp
	officer     *regexp.Regexp
	attorney    *regexp.Regexp
}

// IsZero reports whether t was never compiled.
func (t PhraseTable) IsZero() bool {
	return t.powers == nil
}

// DefaultPhraseTable compiles DefaultPhraseSpec.
func DefaultPhraseTable() PhraseTable {
	t, err := Compile(DefaultPhraseSpec())
	if err != nil {
		panic(fmt.Sprintf("signatory: default phrase table: %v", err))
	}
	return t
}

// Compile validates and compiles a spec. Every canonical power needs a
// pattern.
func Compile(spec PhraseSpec) (PhraseTable, error) {
	t := PhraseTable{powers: make(map[Power]*regexp.Regexp, len(CanonicalPowers))}
	for _, p := range CanonicalPowers {
		pattern, ok := spec.Powers[p]
		if !ok || strings.TrimSpace(pattern) == "" {
			return PhraseTable{}, fmt.Errorf("pattern for %s is required", p)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return PhraseTable{}, fmt.Errorf("pattern for %s: %w", p, err)
		}
		t.powers[p] = re
	}
	t.limitation = wordList(spec.LimitationLabels)
	t.restriction = wordList(spec.RestrictionKeywords)
	t.joint = wordList(spec.JointExercise)
	t.officer = wordList(spec.OfficerTitles)
	t.attorney = wordList(spec.AttorneyKeywords)
	return t, nil
}

func wordList(words []string) *regexp.Regexp {
	var quoted []string
	for _, w := range words {
		if w = normalizeText(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(kstrings.FoldAccents(s))), " ")
}

// withoutJointExercise blanks out phrases such as "solo o conjuntamente" so
// their "solo" is not read as a restriction.
func (t PhraseTable) withoutJointExercise(text string) string {
	if t.joint == nil {
		return text
	}
	return t.joint.ReplaceAllString(text, " ")
}

func find(re *regexp.Regexp, text string) string {
	if re == nil {
		return ""
	}
	return re.FindString(text)
}
