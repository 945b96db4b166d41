package scheduling

import (
	"time"

	"slotbook/models"
)

// CandidateSlots generates the canonical bookable windows for one calendar
// date: consecutive non-overlapping slots of SlotDurationMinutes starting
// at StartHour and ending at or before EndHour, computed in the configured
// timezone and normalized to UTC. A trailing partial slot is dropped. A
// window shorter than one slot yields an empty sequence, not an error.
//
// Pure function of (date, cfg): same inputs always produce the same slots.
func CandidateSlots(date time.Time, cfg models.WorkingHoursConfig) []models.TimeInterval {
	loc := cfg.Location()
	day := date.In(loc)

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), cfg.StartHour, 0, 0, 0, loc)
	dayEnd := time.Date(day.Year(), day.Month(), day.Day(), cfg.EndHour, 0, 0, 0, loc)
	step := time.Duration(cfg.SlotDurationMinutes) * time.Minute

	var slots []models.TimeInterval
	for cursor := dayStart; !cursor.Add(step).After(dayEnd); cursor = cursor.Add(step) {
		slots = append(slots, models.TimeInterval{
			Start: cursor.UTC(),
			End:   cursor.Add(step).UTC(),
		})
	}
	return slots
}
