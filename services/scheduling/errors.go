package scheduling

import (
	"errors"
	"fmt"
)

// ErrLedgerFenced is returned while a calendar's ledger is fenced after an
// invariant violation. No bookings are accepted until reconciliation
// against the external calendar succeeds.
var ErrLedgerFenced = errors.New("ledger is fenced pending reconciliation")

// ConflictError means the requested interval is already taken. The caller
// should re-query availability; the core never auto-picks an alternative.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

// NotFoundError means no appointment exists under the given identifier.
type NotFoundError struct {
	AppointmentID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("appointment %s not found", e.AppointmentID)
}

// CollaboratorError means the external calendar or durable storage was
// unreachable or timed out. Retryable is a hint for the caller; the core
// performs no retries itself.
type CollaboratorError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator unavailable during %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// ValidationError means the request was malformed and was rejected before
// touching the ledger.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
