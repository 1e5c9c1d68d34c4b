package dto

// GenerateGridRequest builds a fresh period grid; any previously generated
// slots for the config are replaced wholesale.
type GenerateGridRequest struct {
	StartTime     string   `json:"startTime" validate:"required"`
	Periods       int      `json:"periods" validate:"required,min=1"`
	ClassDuration int      `json:"classDuration" validate:"required,min=30"`
	Days          []string `json:"days" validate:"required,min=1,dive,required"`
}

// InsertBreakRequest inserts a break marker after the given slot index for
// one day only.
type InsertBreakRequest struct {
	Day        string `json:"day" validate:"required"`
	AfterIndex int    `json:"afterIndex" validate:"min=0"`
}

// RemoveSlotRequest drops the slot at the given position.
type RemoveSlotRequest struct {
	Day   string `json:"day" validate:"required"`
	Index int    `json:"index" validate:"min=0"`
}

// AppendSlotRequest extends a day by one class slot.
type AppendSlotRequest struct {
	Day string `json:"day" validate:"required"`
}

// SaveScheduleConfigRequest persists a named grid configuration.
type SaveScheduleConfigRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=100"`
	StartTime     string   `json:"startTime" validate:"required"`
	Periods       int      `json:"periods" validate:"required,min=1"`
	ClassDuration int      `json:"classDuration" validate:"required,min=30"`
	Days          []string `json:"days" validate:"required,min=1,dive,required"`
}
