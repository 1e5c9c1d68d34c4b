package dto

import "github.com/campus-suite/timetable-api/internal/models"

// UpdateConstraintRequest adjusts the weighting of one catalogue entry.
// The catalogue itself is fixed; only importance and the active flag move.
type UpdateConstraintRequest struct {
	Importance models.ImportanceTier `json:"importance" validate:"required,oneof=very_important important less_important"`
	Active     bool                  `json:"active"`
}
