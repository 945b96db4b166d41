package scheduling

import (
	"context"
	"sync"
	"time"

	appointmentRepo "slotbook/database/repository/appointment"
	"slotbook/services/calendar"
)

// LedgerRegistry owns one ledger per calendar identity. Ledgers are built
// lazily on first use so startup reconciliation only runs for calendars
// that actually receive traffic. The registry is the only place ledgers
// are constructed; there is no ambient global state.
type LedgerRegistry struct {
	repo       appointmentRepo.AppointmentRepository
	cal        calendar.Client
	resolver   *AvailabilityResolver
	reminders  ReminderScheduler
	extTimeout time.Duration

	mu      sync.Mutex
	ledgers map[string]*Ledger
}

// NewLedgerRegistry wires the registry with its collaborators. reminders
// may be nil when no reminder worker is running.
func NewLedgerRegistry(
	repo appointmentRepo.AppointmentRepository,
	cal calendar.Client,
	resolver *AvailabilityResolver,
	reminders ReminderScheduler,
	extTimeout time.Duration,
) *LedgerRegistry {
	return &LedgerRegistry{
		repo:       repo,
		cal:        cal,
		resolver:   resolver,
		reminders:  reminders,
		extTimeout: extTimeout,
		ledgers:    make(map[string]*Ledger),
	}
}

// ForCalendar returns the ledger for a calendar identity, constructing and
// loading it on first access. Construction runs outside the registry lock:
// loading one calendar must not block lookups for the others. Racing
// first-touches of the same calendar may both construct; the loser's ledger
// is discarded before it handles any operation.
func (reg *LedgerRegistry) ForCalendar(ctx context.Context, calendarID string) (*Ledger, error) {
	reg.mu.Lock()
	if l, ok := reg.ledgers[calendarID]; ok {
		reg.mu.Unlock()
		return l, nil
	}
	reg.mu.Unlock()

	l, err := NewLedger(ctx, calendarID, reg.repo, reg.cal, reg.resolver, reg.reminders, reg.extTimeout)
	if err != nil {
		return nil, err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if existing, ok := reg.ledgers[calendarID]; ok {
		return existing, nil
	}
	reg.ledgers[calendarID] = l
	return l, nil
}
