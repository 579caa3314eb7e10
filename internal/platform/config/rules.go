package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kycengine/internal/decision/signatory"
)

// LoadRules reads a YAML phrase table. Sections left out of the file keep
// the built-in vocabulary.
func LoadRules(path string) (signatory.PhraseTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return signatory.PhraseTable{}, fmt.Errorf("failed to read rules file %q: %w", path, err)
	}
	return ParseRules(data)
}

// ParseRules parses and compiles a YAML phrase table.
func ParseRules(data []byte) (signatory.PhraseTable, error) {
	var spec signatory.PhraseSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return signatory.PhraseTable{}, fmt.Errorf("failed to parse rules: %w", err)
	}

	applyRuleDefaults(&spec)

	table, err := signatory.Compile(spec)
	if err != nil {
		return signatory.PhraseTable{}, fmt.Errorf("rules validation failed: %w", err)
	}
	return table, nil
}

func applyRuleDefaults(spec *signatory.PhraseSpec) {
	def := signatory.DefaultPhraseSpec()
	if spec.Powers == nil {
		spec.Powers = make(map[signatory.Power]string, len(def.Powers))
	}
	for p, pattern := range def.Powers {
		if _, ok := spec.Powers[p]; !ok {
			spec.Powers[p] = pattern
		}
	}
	if spec.LimitationLabels == nil {
		spec.LimitationLabels = def.LimitationLabels
	}
	if spec.RestrictionKeywords == nil {
		spec.RestrictionKeywords = def.RestrictionKeywords
	}
	if spec.JointExercise == nil {
		spec.JointExercise = def.JointExercise
	}
	if spec.OfficerTitles == nil {
		spec.OfficerTitles = def.OfficerTitles
	}
	if spec.AttorneyKeywords == nil {
		spec.AttorneyKeywords = def.AttorneyKeywords
	}
}
