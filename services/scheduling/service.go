package scheduling

import (
	"context"
	"time"

	appointmentRepo "slotbook/database/repository/appointment"
	"slotbook/models"
)

// SchedulingService is the façade collaborators (chat bot, admin bot, HTTP
// adapter) talk to. It validates input shape, delegates to the resolver and
// ledger, and performs no business logic of its own.
type SchedulingService interface {
	ListAvailability(ctx context.Context, calendarID string, rng DateRange, opts ResolveOptions) (models.AvailabilityResult, error)
	Book(ctx context.Context, calendarID, ownerID string, start, end time.Time) (models.Appointment, error)
	Reschedule(ctx context.Context, calendarID, apptID string, start, end time.Time) (models.Appointment, error)
	Cancel(ctx context.Context, calendarID, apptID string) (models.Appointment, error)
	ListOwnerAppointments(ctx context.Context, calendarID, ownerID string) ([]models.Appointment, error)
}

// DefaultSchedulingService implements SchedulingService.
type DefaultSchedulingService struct {
	Registry  *LedgerRegistry
	Resolver  *AvailabilityResolver
	Repo      appointmentRepo.AppointmentRepository
	Calendars map[string]bool // known calendar identities
}

func (s *DefaultSchedulingService) ListAvailability(ctx context.Context, calendarID string, rng DateRange, opts ResolveOptions) (models.AvailabilityResult, error) {
	if err := s.checkCalendar(calendarID); err != nil {
		return models.AvailabilityResult{}, err
	}
	return s.Resolver.Resolve(ctx, calendarID, rng, opts)
}

func (s *DefaultSchedulingService) Book(ctx context.Context, calendarID, ownerID string, start, end time.Time) (models.Appointment, error) {
	if err := s.checkCalendar(calendarID); err != nil {
		return models.Appointment{}, err
	}
	if ownerID == "" {
		return models.Appointment{}, &ValidationError{Field: "ownerID", Message: "must not be empty"}
	}
	iv, err := models.NewTimeInterval(start, end)
	if err != nil {
		return models.Appointment{}, &ValidationError{Field: "interval", Message: err.Error()}
	}

	ledger, err := s.Registry.ForCalendar(ctx, calendarID)
	if err != nil {
		return models.Appointment{}, err
	}
	return ledger.Book(ctx, ownerID, iv)
}

func (s *DefaultSchedulingService) Reschedule(ctx context.Context, calendarID, apptID string, start, end time.Time) (models.Appointment, error) {
	if err := s.checkCalendar(calendarID); err != nil {
		return models.Appointment{}, err
	}
	if apptID == "" {
		return models.Appointment{}, &ValidationError{Field: "appointmentID", Message: "must not be empty"}
	}
	iv, err := models.NewTimeInterval(start, end)
	if err != nil {
		return models.Appointment{}, &ValidationError{Field: "interval", Message: err.Error()}
	}

	ledger, err := s.Registry.ForCalendar(ctx, calendarID)
	if err != nil {
		return models.Appointment{}, err
	}
	return ledger.Reschedule(ctx, apptID, iv)
}

func (s *DefaultSchedulingService) Cancel(ctx context.Context, calendarID, apptID string) (models.Appointment, error) {
	if err := s.checkCalendar(calendarID); err != nil {
		return models.Appointment{}, err
	}
	if apptID == "" {
		return models.Appointment{}, &ValidationError{Field: "appointmentID", Message: "must not be empty"}
	}

	ledger, err := s.Registry.ForCalendar(ctx, calendarID)
	if err != nil {
		return models.Appointment{}, err
	}
	return ledger.Cancel(ctx, apptID)
}

func (s *DefaultSchedulingService) ListOwnerAppointments(ctx context.Context, calendarID, ownerID string) ([]models.Appointment, error) {
	if err := s.checkCalendar(calendarID); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, &ValidationError{Field: "ownerID", Message: "must not be empty"}
	}
	appts, err := s.Repo.ListByOwner(ctx, calendarID, ownerID)
	if err != nil {
		return nil, &CollaboratorError{Op: "list appointments", Err: err, Retryable: true}
	}
	return appts, nil
}

func (s *DefaultSchedulingService) checkCalendar(calendarID string) error {
	if calendarID == "" {
		return &ValidationError{Field: "calendarID", Message: "must not be empty"}
	}
	if len(s.Calendars) > 0 && !s.Calendars[calendarID] {
		return &ValidationError{Field: "calendarID", Message: "unknown calendar identity"}
	}
	return nil
}
