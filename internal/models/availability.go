package models

// AvailabilityMode classifies a period cell for a teacher. Mandatory is a
// hard exclusion, preferable a soft one. The modes are mutually exclusive:
// setting one clears the other.
type AvailabilityMode string

const (
	AvailabilityUnset      AvailabilityMode = ""
	AvailabilityMandatory  AvailabilityMode = "mandatory"
	AvailabilityPreferable AvailabilityMode = "preferable"
)

// AvailabilityGrid maps day -> period index -> mode. Absent cells are unset.
type AvailabilityGrid map[string]map[int]AvailabilityMode

// Mode returns the mode for a cell, AvailabilityUnset when absent.
func (g AvailabilityGrid) Mode(day string, index int) AvailabilityMode {
	if cells, ok := g[day]; ok {
		return cells[index]
	}
	return AvailabilityUnset
}

// Set records a mode for a cell, overwriting any previous mode. Setting
// AvailabilityUnset clears the cell.
func (g AvailabilityGrid) Set(day string, index int, mode AvailabilityMode) {
	if mode == AvailabilityUnset {
		if cells, ok := g[day]; ok {
			delete(cells, index)
			if len(cells) == 0 {
				delete(g, day)
			}
		}
		return
	}
	if g[day] == nil {
		g[day] = make(map[int]AvailabilityMode)
	}
	g[day][index] = mode
}

// DayMap is the compact wire representation: day -> ordered time labels.
type DayMap map[string][]string

// AvailabilityWire is the persisted form of a teacher's unavailable periods.
type AvailabilityWire struct {
	Mandatory  DayMap `json:"mandatory"`
	Preferable DayMap `json:"preferable"`
}
