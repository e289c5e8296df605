package tabulation

import (
	"strings"

	"github.com/noah-isme/sma-compliance-report/internal/models"
)

// Role classifies an alternative description.
type Role int

const (
	RoleOther Role = iota
	RoleAffirmative
	RoleNegative
	RolePartial
)

// Vocabulary lists the descriptions recognised for each role. Matching is
// case-insensitive and ignores surrounding whitespace.
type Vocabulary struct {
	Affirmative []string
	Negative    []string
	Partial     []string
}

// DefaultVocabulary recognises the Spanish labels used by the evaluation
// system and their English equivalents.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Affirmative: []string{"SI", "SÍ", "YES"},
		Negative:    []string{"NO"},
		Partial:     []string{"EN PARTE", "PARTIALLY"},
	}
}

// Classify returns the role of an alternative description.
func (v Vocabulary) Classify(description string) Role {
	switch {
	case matchAny(description, v.Affirmative):
		return RoleAffirmative
	case matchAny(description, v.Negative):
		return RoleNegative
	case matchAny(description, v.Partial):
		return RolePartial
	default:
		return RoleOther
	}
}

// IsAffirmative reports whether the description counts toward compliance.
func (v Vocabulary) IsAffirmative(description string) bool {
	return v.Classify(description) == RoleAffirmative
}

// IsDefaultTriple reports whether the alternatives are exactly one
// affirmative, one negative and one partial choice.
func (v Vocabulary) IsDefaultTriple(alternatives []models.Alternative) bool {
	if len(alternatives) != 3 {
		return false
	}
	seen := make(map[Role]bool, 3)
	for _, a := range alternatives {
		role := v.Classify(a.Description)
		if role == RoleOther || seen[role] {
			return false
		}
		seen[role] = true
	}
	return true
}

func matchAny(description string, labels []string) bool {
	description = strings.TrimSpace(description)
	for _, label := range labels {
		if strings.EqualFold(description, strings.TrimSpace(label)) {
			return true
		}
	}
	return false
}

// NewVocabulary builds a vocabulary from configured label lists. Empty lists
// keep the default labels for their role.
func NewVocabulary(affirmative, negative, partial []string) Vocabulary {
	v := DefaultVocabulary()
	if len(affirmative) > 0 {
		v.Affirmative = affirmative
	}
	if len(negative) > 0 {
		v.Negative = negative
	}
	if len(partial) > 0 {
		v.Partial = partial
	}
	return v
}
