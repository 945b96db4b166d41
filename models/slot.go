package models

// SlotStatus marks a candidate slot as bookable or taken.
type SlotStatus string

const (
	SlotFree SlotStatus = "free"
	SlotBusy SlotStatus = "busy"
)

// Slot is a fixed-duration candidate interval within working hours. Slots
// are derived on every availability query and never persisted.
type Slot struct {
	Interval TimeInterval `json:"interval"`
	Status   SlotStatus   `json:"status"`
}
