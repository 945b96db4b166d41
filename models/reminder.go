package models

import "time"

// ReminderPayload is the asynq task payload for an appointment reminder.
type ReminderPayload struct {
	AppointmentID string    `json:"appointmentId"`
	CalendarID    string    `json:"calendarId"`
	OwnerID       string    `json:"ownerId"`
	StartsAt      time.Time `json:"startsAt"`
}
