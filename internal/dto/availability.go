package dto

import "github.com/campus-suite/timetable-api/internal/models"

// AvailabilityCellUpdate toggles one cell of a teacher's availability grid.
// Mode "" clears the cell; mandatory and preferable overwrite each other.
type AvailabilityCellUpdate struct {
	Day   string                  `json:"day" validate:"required"`
	Index int                     `json:"index" validate:"min=0"`
	Mode  models.AvailabilityMode `json:"mode" validate:"omitempty,oneof=mandatory preferable"`
}

// UpdateAvailabilityRequest replaces a teacher's availability with the
// supplied cell set, encoded against the grid of the named config.
type UpdateAvailabilityRequest struct {
	ScheduleConfigID string                   `json:"scheduleConfigId" validate:"required"`
	Cells            []AvailabilityCellUpdate `json:"cells" validate:"dive"`
}

// AvailabilityResponse returns both the wire form and the decoded grid so
// editing clients need not duplicate the index/label correspondence.
type AvailabilityResponse struct {
	Wire models.AvailabilityWire   `json:"wire"`
	Grid map[string]map[int]string `json:"grid"`
}
