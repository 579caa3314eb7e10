package decision

import (
	"fmt"
	"strings"

	"kycengine/internal/domain"
)

type checkItem struct {
	label string
	ok    bool
	note  string
}

// checklist records what was and was not verified, in check order. A
// label marked twice keeps its first position and the latest outcome.
type checklist struct {
	items []checkItem
}

func newChecklist() *checklist {
	return &checklist{}
}

func (c *checklist) mark(label string, ok bool, note string) {
	for i := range c.items {
		if c.items[i].label == label {
			c.items[i] = checkItem{label: label, ok: ok, note: note}
			return
		}
	}
	c.items = append(c.items, checkItem{label: label, ok: ok, note: note})
}

func (c *checklist) flag(entityType domain.EntityType, nat Nationality) domain.ValidationFlag {
	var b strings.Builder
	fmt.Fprintf(&b, "Verification checklist for %s (nationality: %s):", entityType, nat)
	for _, it := range c.items {
		box := "[ ]"
		if it.ok {
			box = "[x]"
		}
		fmt.Fprintf(&b, "\n%s %s", box, it.label)
		if it.note != "" {
			fmt.Fprintf(&b, ": %s", it.note)
		}
	}
	return domain.ValidationFlag{
		Code:    CodeVerificationChecklist,
		Level:   domain.LevelInfo,
		Message: b.String(),
	}
}
