package domain

import "time"

// FlagLevel grades how serious a flag is.
type FlagLevel string

const (
	LevelInfo     FlagLevel = "info"
	LevelWarning  FlagLevel = "warning"
	LevelCritical FlagLevel = "critical"
)

// ValidationFlag is one finding of the decision engine. Flags are facts:
// once emitted they are never modified.
type ValidationFlag struct {
	Code           string    `json:"code"`
	Level          FlagLevel `json:"level"`
	Message        string    `json:"message"`
	ActionRequired string    `json:"action_required,omitempty"`
	SupportingDocs []string  `json:"supporting_docs,omitempty"`
	Penalty        float64   `json:"penalty,omitempty"`
}

// ValidationResult is the engine output for one profile.
type ValidationResult struct {
	CustomerID  string           `json:"customer_id"`
	EntityType  EntityType       `json:"entity_type"`
	Score       float64          `json:"score"`
	Flags       []ValidationFlag `json:"flags"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// HasFlag reports whether a flag with code was emitted.
func (r *ValidationResult) HasFlag(code string) bool {
	_, ok := r.Flag(code)
	return ok
}

// Flag returns the first flag with code.
func (r *ValidationResult) Flag(code string) (ValidationFlag, bool) {
	for _, f := range r.Flags {
		if f.Code == code {
			return f, true
		}
	}
	return ValidationFlag{}, false
}

// CountLevel returns how many flags carry level.
func (r *ValidationResult) CountLevel(level FlagLevel) int {
	n := 0
	for _, f := range r.Flags {
		if f.Level == level {
			n++
		}
	}
	return n
}
