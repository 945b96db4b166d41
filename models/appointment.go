package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment. Transitions
// are Pending -> Confirmed -> Cancelled, or Pending -> Cancelled when the
// external write never succeeds. Cancelled is terminal.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is the authoritative booking record owned by the ledger.
type Appointment struct {
	ID               string            `bson:"id" json:"id"`                              // Unique appointment identifier (UUID)
	CalendarID       string            `bson:"calendar_id" json:"calendar_id"`            // External calendar the appointment is scheduled against
	OwnerID          string            `bson:"owner_id" json:"owner_id"`                  // User who owns the booking
	Interval         TimeInterval      `bson:"interval" json:"interval"`                  // Booked time span, UTC
	Status           AppointmentStatus `bson:"status" json:"status"`                      // pending, confirmed or cancelled
	ExternalEventRef string            `bson:"external_event_ref" json:"external_event_ref,omitempty"` // Lookup key into the external calendar; weak reference only
	CreatedAt        time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time         `bson:"updated_at" json:"updated_at"`
}

// Active reports whether the appointment still occupies its interval.
// Cancelled appointments are kept for history but hold no reservation.
func (a Appointment) Active() bool {
	return a.Status == AppointmentPending || a.Status == AppointmentConfirmed
}

// ToPublicAppointmentData strips internal references for transport.
func ToPublicAppointmentData(a Appointment) PublicAppointmentData {
	return PublicAppointmentData{
		ID:         a.ID,
		CalendarID: a.CalendarID,
		OwnerID:    a.OwnerID,
		Start:      a.Interval.Start,
		End:        a.Interval.End,
		Status:     a.Status,
	}
}

// PublicAppointmentData is the collaborator-visible projection of an
// appointment (no external event refs).
type PublicAppointmentData struct {
	ID         string            `json:"id"`
	CalendarID string            `json:"calendar_id"`
	OwnerID    string            `json:"owner_id"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Status     AppointmentStatus `json:"status"`
}
