package models

// BookingSession holds context between listing availability and the final
// confirmation. Sessions live in the cache with a short TTL; the ledger
// re-validates the chosen slot regardless of what the session saw.
type BookingSession struct {
	SessionID    string `json:"sessionId"`
	CalendarID   string `json:"calendarId"`
	OwnerID      string `json:"ownerId"`
	Availability []Slot `json:"availability,omitempty"`
}

// BookingResponse is returned by the scheduling endpoints. It carries a
// session context while the flow is in progress or the final appointment
// once confirmed.
type BookingResponse struct {
	SessionID    string                 `json:"sessionID,omitempty"`
	Availability []Slot                 `json:"availability,omitempty"`
	Appointment  *PublicAppointmentData `json:"appointment,omitempty"`
}
