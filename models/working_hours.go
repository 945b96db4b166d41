package models

import (
	"fmt"
	"time"
)

// WorkingHoursConfig describes the bookable window of a calendar day.
// Hours are whole clock hours in the configured timezone.
type WorkingHoursConfig struct {
	StartHour           int    `bson:"start_hour" json:"start_hour"`
	EndHour             int    `bson:"end_hour" json:"end_hour"`
	SlotDurationMinutes int    `bson:"slot_duration_minutes" json:"slot_duration_minutes"`
	Timezone            string `bson:"timezone" json:"timezone"`
}

// Validate enforces 0 <= StartHour < EndHour <= 24 and a positive slot
// duration, and checks the timezone resolves. A duration that does not
// evenly divide the window is allowed; the trailing partial slot is simply
// never offered.
func (c WorkingHoursConfig) Validate() error {
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("invalid working hours: start %d, end %d", c.StartHour, c.EndHour)
	}
	if c.SlotDurationMinutes <= 0 {
		return fmt.Errorf("invalid slot duration: %d minutes", c.SlotDurationMinutes)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC if the
// config was never validated.
func (c WorkingHoursConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
