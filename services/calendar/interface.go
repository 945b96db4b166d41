package calendar

import (
	"context"
	"time"

	"slotbook/models"
)

// EventMetadata is attached to externally written events so a committed
// appointment can be traced back to its owner from the calendar alone.
type EventMetadata struct {
	Summary     string
	Description string
	OwnerID     string
}

// Client is the external calendar collaborator. Implementations must honor
// the passed context deadline; the ledger treats a timeout as a
// collaborator failure and rolls back its local reservation.
type Client interface {
	// ReadBusyIntervals returns the committed busy spans between from and to,
	// merged or not, in no guaranteed order. Intervals are UTC.
	ReadBusyIntervals(ctx context.Context, calendarID string, from, to time.Time) ([]models.TimeInterval, error)

	// WriteAppointment commits an event to the external calendar and returns
	// its event reference.
	WriteAppointment(ctx context.Context, calendarID string, interval models.TimeInterval, meta EventMetadata) (string, error)

	// DeleteAppointment removes an event by reference. Best-effort from the
	// caller's point of view on cancellation.
	DeleteAppointment(ctx context.Context, calendarID, eventRef string) error

	// ListEventRefs returns the refs of events the service wrote in the given
	// window. Used by startup reconciliation to report orphans.
	ListEventRefs(ctx context.Context, calendarID string, from, to time.Time) ([]string, error)
}
