package models

import "time"

// AvailabilityResult carries the resolved slots for a date range. When no
// slots can be offered the reason is reported alongside instead of an error
// so the caller can render it directly.
type AvailabilityResult struct {
	CalendarID        string    `json:"calendar_id"`
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	Slots             []Slot    `json:"slots"`
	AvailabilityError string    `json:"availability_error,omitempty"`
}

// FreeSlots filters the result down to bookable slots, preserving order.
func (r AvailabilityResult) FreeSlots() []Slot {
	var free []Slot
	for _, s := range r.Slots {
		if s.Status == SlotFree {
			free = append(free, s)
		}
	}
	return free
}
