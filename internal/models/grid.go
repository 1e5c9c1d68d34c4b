package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SlotKind distinguishes teachable periods from break markers.
type SlotKind string

const (
	SlotKindClass SlotKind = "class"
	SlotKindBreak SlotKind = "break"
)

// BreakLabel is the literal label carried by break slots; breaks hold no
// computed times.
const BreakLabel = "Break"

// PeriodSlot is one position in a day's ordered period sequence. ID is
// stable across positional shifts caused by break insertion or removal.
type PeriodSlot struct {
	ID        string   `json:"id"`
	Day       string   `json:"day"`
	Index     int      `json:"index"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Kind      SlotKind `json:"kind"`
}

// Label returns the display label for the slot: the formatted start time
// for class slots, the break marker otherwise.
func (s PeriodSlot) Label() string {
	if s.Kind == SlotKindBreak {
		return BreakLabel
	}
	return s.StartTime
}

// PeriodGrid holds the ordered slot sequence per day.
type PeriodGrid map[string][]PeriodSlot

// Labels flattens the grid into day-keyed label lists, the vocabulary
// shared with the availability encoding.
func (g PeriodGrid) Labels() map[string][]string {
	labels := make(map[string][]string, len(g))
	for day, slots := range g {
		out := make([]string, 0, len(slots))
		for _, slot := range slots {
			out = append(out, slot.Label())
		}
		labels[day] = out
	}
	return labels
}

// ScheduleConfig is a persisted grid configuration.
type ScheduleConfig struct {
	ID               string         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Days             types.JSONText `db:"days" json:"days"`
	Periods          int            `db:"periods" json:"periods"`
	StartTime        string         `db:"start_time" json:"start_time"`
	ClassDuration    int            `db:"class_duration" json:"class_duration"`
	GeneratedPeriods types.JSONText `db:"generated_periods" json:"generated_periods"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}
