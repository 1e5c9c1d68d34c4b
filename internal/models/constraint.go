package models

import "time"

// ImportanceTier is a three-tier ordinal weighting hint passed to the
// external solver; it is never evaluated locally.
type ImportanceTier string

const (
	ImportanceVeryImportant ImportanceTier = "very_important"
	ImportanceImportant     ImportanceTier = "important"
	ImportanceLessImportant ImportanceTier = "less_important"
)

// ValidImportance reports whether the tier is one of the three known values.
func ValidImportance(tier ImportanceTier) bool {
	switch tier {
	case ImportanceVeryImportant, ImportanceImportant, ImportanceLessImportant:
		return true
	}
	return false
}

// Constraint is one entry of the fixed soft-constraint catalogue. Position
// fixes catalogue order so generation payloads stay reproducible.
type Constraint struct {
	Key        string         `db:"key" json:"key"`
	Name       string         `db:"name" json:"name"`
	Importance ImportanceTier `db:"importance" json:"importance"`
	Active     bool           `db:"active" json:"active"`
	Position   int            `db:"position" json:"position"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}
