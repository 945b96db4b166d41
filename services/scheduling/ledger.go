package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appointmentRepo "slotbook/database/repository/appointment"
	"slotbook/models"
	"slotbook/services/calendar"
	"slotbook/utils"
)

// ReminderScheduler enqueues and cancels appointment reminders. Both calls
// are best-effort from the ledger's point of view.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt models.Appointment) error
	CancelReminder(ctx context.Context, apptID string) error
}

// reconcileHorizon bounds how far ahead startup reconciliation scans the
// external calendar for orphaned events.
const reconcileHorizon = 30 * 24 * time.Hour

// Ledger is the authoritative record of appointments for one calendar
// identity. The reservation index is the single shared mutable resource;
// check-and-reserve and release both run under the ledger mutex, while
// external calendar writes happen outside it so local bookings are never
// blocked on network latency. A reservation taken before an external write
// is an optimistic claim, rolled back if the write fails.
type Ledger struct {
	calendarID string
	repo       appointmentRepo.AppointmentRepository
	cal        calendar.Client
	resolver   *AvailabilityResolver
	reminders  ReminderScheduler
	extTimeout time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu           sync.Mutex
	appointments map[string]*models.Appointment
	dayIndex     map[string][]string // UTC date -> ids of active appointments touching that day
	holds        map[string]models.TimeInterval
	fenced       bool
}

// NewLedger loads persisted appointments for the calendar, rebuilds the
// reservation index and runs startup reconciliation. Pending records are
// leftovers of writes in flight at crash time and are demoted to Cancelled.
// If two Confirmed appointments overlap the ledger comes up fenced: reads
// still work but every booking fails with ErrLedgerFenced until Reconcile
// succeeds.
func NewLedger(
	ctx context.Context,
	calendarID string,
	repo appointmentRepo.AppointmentRepository,
	cal calendar.Client,
	resolver *AvailabilityResolver,
	reminders ReminderScheduler,
	extTimeout time.Duration,
) (*Ledger, error) {
	l := &Ledger{
		calendarID:   calendarID,
		repo:         repo,
		cal:          cal,
		resolver:     resolver,
		reminders:    reminders,
		extTimeout:   extTimeout,
		logger:       utils.GetLogger(),
		now:          time.Now,
		appointments: make(map[string]*models.Appointment),
		dayIndex:     make(map[string][]string),
		holds:        make(map[string]models.TimeInterval),
	}

	persisted, err := repo.ListByCalendar(ctx, calendarID)
	if err != nil {
		return nil, &CollaboratorError{Op: "load appointments", Err: err, Retryable: true}
	}

	for i := range persisted {
		appt := persisted[i]
		if appt.Status == models.AppointmentPending {
			l.logger.Warn("demoting stale pending appointment found at startup",
				zap.String("appointmentID", appt.ID))
			appt.Status = models.AppointmentCancelled
			if err := repo.UpdateStatus(ctx, appt.ID, models.AppointmentCancelled); err != nil {
				l.logger.Error("failed to persist demotion of stale pending appointment",
					zap.String("appointmentID", appt.ID), zap.Error(err))
			}
		}
		l.appointments[appt.ID] = &appt
		if appt.Active() {
			l.indexLocked(appt.ID, appt.Interval)
		}
	}

	l.fenced = l.overlapViolationLocked()
	if l.fenced {
		l.logger.Error("confirmed appointments overlap; ledger fenced until reconciliation",
			zap.String("calendarID", calendarID))
	}

	l.reportOrphans(ctx)
	return l, nil
}

// Book reserves an interval for an owner, commits it to the external
// calendar and confirms. The external read-then-check runs before the lock;
// the authoritative conflict check runs under it.
func (l *Ledger) Book(ctx context.Context, ownerID string, iv models.TimeInterval) (models.Appointment, error) {
	if err := l.checkFenced(); err != nil {
		return models.Appointment{}, err
	}

	// Last external check before reserving. Fails closed: an unreadable
	// calendar never books.
	free, err := l.resolver.IntervalFree(ctx, l.calendarID, iv)
	if err != nil {
		return models.Appointment{}, err
	}
	if !free {
		return models.Appointment{}, &ConflictError{Message: "interval is busy in the external calendar"}
	}

	appt := &models.Appointment{
		ID:         uuid.New().String(),
		CalendarID: l.calendarID,
		OwnerID:    ownerID,
		Interval:   iv,
		Status:     models.AppointmentPending,
	}

	l.mu.Lock()
	if l.fenced {
		l.mu.Unlock()
		return models.Appointment{}, ErrLedgerFenced
	}
	if conflict := l.conflictLocked(iv, ""); conflict != "" {
		l.mu.Unlock()
		return models.Appointment{}, &ConflictError{Message: "interval overlaps an existing appointment"}
	}
	if err := l.repo.Insert(ctx, appt); err != nil {
		l.mu.Unlock()
		return models.Appointment{}, &CollaboratorError{Op: "persist appointment", Err: err, Retryable: true}
	}
	l.appointments[appt.ID] = appt
	l.indexLocked(appt.ID, iv)
	l.mu.Unlock()

	// External write outside the lock. The local reservation above is an
	// optimistic claim; losing the external write releases it.
	ref, err := l.writeExternal(ctx, appt)
	if err != nil {
		l.rollback(ctx, appt.ID)
		return models.Appointment{}, &CollaboratorError{Op: "write calendar event", Err: err, Retryable: true}
	}

	l.mu.Lock()
	if appt.Status != models.AppointmentPending {
		// Cancelled while the external write was in flight. The record is
		// already out of the reservation index; confirming it now would
		// resurrect a terminal state. Remove the stray event instead.
		l.mu.Unlock()
		l.deleteExternal(ctx, ref)
		return models.Appointment{}, &ConflictError{Message: "appointment was cancelled before confirmation"}
	}
	appt.ExternalEventRef = ref
	appt.Status = models.AppointmentConfirmed
	confirmed := *appt
	l.mu.Unlock()

	if err := l.repo.SetExternalEventRef(ctx, appt.ID, ref); err != nil {
		l.logger.Error("failed to persist external event ref",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}
	if err := l.repo.UpdateStatus(ctx, appt.ID, models.AppointmentConfirmed); err != nil {
		l.logger.Error("failed to persist confirmed status",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}

	l.scheduleReminder(ctx, confirmed)
	l.logger.Info("appointment booked",
		zap.String("appointmentID", appt.ID),
		zap.String("ownerID", ownerID),
		zap.Time("start", iv.Start))
	return confirmed, nil
}

// Reschedule moves a confirmed appointment to a new interval as an atomic
// cancel-then-book pair. If the new interval conflicts or the external
// write fails, the original appointment is left untouched.
func (l *Ledger) Reschedule(ctx context.Context, apptID string, newIv models.TimeInterval) (models.Appointment, error) {
	if err := l.checkFenced(); err != nil {
		return models.Appointment{}, err
	}

	l.mu.Lock()
	appt, ok := l.appointments[apptID]
	if !ok || appt.Status == models.AppointmentCancelled {
		l.mu.Unlock()
		return models.Appointment{}, &NotFoundError{AppointmentID: apptID}
	}
	if appt.Status != models.AppointmentConfirmed {
		l.mu.Unlock()
		return models.Appointment{}, &ConflictError{Message: "appointment is not confirmed yet"}
	}
	l.mu.Unlock()

	free, err := l.resolver.IntervalFree(ctx, l.calendarID, newIv)
	if err != nil {
		return models.Appointment{}, err
	}
	if !free {
		return models.Appointment{}, &ConflictError{Message: "new interval is busy in the external calendar"}
	}

	// Hold the target interval so a racing Book cannot slip in between the
	// conflict check and the external write.
	holdID := uuid.New().String()
	l.mu.Lock()
	if l.fenced {
		l.mu.Unlock()
		return models.Appointment{}, ErrLedgerFenced
	}
	appt, ok = l.appointments[apptID]
	if !ok || appt.Status != models.AppointmentConfirmed {
		l.mu.Unlock()
		return models.Appointment{}, &NotFoundError{AppointmentID: apptID}
	}
	if conflict := l.conflictLocked(newIv, apptID); conflict != "" {
		l.mu.Unlock()
		return models.Appointment{}, &ConflictError{Message: "new interval overlaps an existing appointment"}
	}
	l.holds[holdID] = newIv
	oldIv := appt.Interval
	oldRef := appt.ExternalEventRef
	ownerID := appt.OwnerID
	l.mu.Unlock()

	moved := models.Appointment{
		ID:         apptID,
		CalendarID: l.calendarID,
		OwnerID:    ownerID,
		Interval:   newIv,
	}
	newRef, err := l.writeExternal(ctx, &moved)
	if err != nil {
		l.releaseHold(holdID)
		return models.Appointment{}, &CollaboratorError{Op: "write calendar event", Err: err, Retryable: true}
	}

	// Old event removal is best-effort: the new event is already committed
	// and the local record below is the source of truth.
	l.deleteExternal(ctx, oldRef)

	l.mu.Lock()
	delete(l.holds, holdID)
	if appt.Status != models.AppointmentConfirmed {
		// Cancelled while the external write was in flight. Committing the
		// move would re-index a terminal record and orphan the new event.
		l.mu.Unlock()
		l.deleteExternal(ctx, newRef)
		return models.Appointment{}, &NotFoundError{AppointmentID: apptID}
	}
	appt.Interval = newIv
	appt.ExternalEventRef = newRef
	l.unindexLocked(apptID, oldIv)
	l.indexLocked(apptID, newIv)
	updated := *appt
	l.mu.Unlock()

	if err := l.repo.UpdateInterval(ctx, apptID, newIv); err != nil {
		l.logger.Error("failed to persist rescheduled interval",
			zap.String("appointmentID", apptID), zap.Error(err))
	}
	if err := l.repo.SetExternalEventRef(ctx, apptID, newRef); err != nil {
		l.logger.Error("failed to persist external event ref",
			zap.String("appointmentID", apptID), zap.Error(err))
	}

	l.cancelReminder(ctx, apptID)
	l.scheduleReminder(ctx, updated)
	l.logger.Info("appointment rescheduled",
		zap.String("appointmentID", apptID),
		zap.Time("newStart", newIv.Start))
	return updated, nil
}

// Cancel transitions an appointment to Cancelled, releases its reservation
// and issues a best-effort external delete. The local transition never
// waits on the external calendar: the ledger alone decides whether the
// slot is free for rebooking.
func (l *Ledger) Cancel(ctx context.Context, apptID string) (models.Appointment, error) {
	l.mu.Lock()
	appt, ok := l.appointments[apptID]
	if !ok || appt.Status == models.AppointmentCancelled {
		l.mu.Unlock()
		return models.Appointment{}, &NotFoundError{AppointmentID: apptID}
	}
	appt.Status = models.AppointmentCancelled
	l.unindexLocked(apptID, appt.Interval)
	cancelled := *appt
	l.mu.Unlock()

	if err := l.repo.UpdateStatus(ctx, apptID, models.AppointmentCancelled); err != nil {
		l.logger.Error("failed to persist cancellation",
			zap.String("appointmentID", apptID), zap.Error(err))
	}

	if cancelled.ExternalEventRef != "" {
		l.deleteExternal(ctx, cancelled.ExternalEventRef)
	}
	l.cancelReminder(ctx, apptID)

	l.logger.Info("appointment cancelled", zap.String("appointmentID", apptID))
	return cancelled, nil
}

// Get returns a copy of the appointment, Cancelled ones included.
func (l *Ledger) Get(apptID string) (models.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	appt, ok := l.appointments[apptID]
	if !ok {
		return models.Appointment{}, &NotFoundError{AppointmentID: apptID}
	}
	return *appt, nil
}

// Fenced reports whether the ledger is refusing bookings.
func (l *Ledger) Fenced() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fenced
}

// Reconcile re-checks the no-overlap invariant and reports orphaned
// external events. On success a fenced ledger accepts bookings again.
func (l *Ledger) Reconcile(ctx context.Context) error {
	l.mu.Lock()
	violated := l.overlapViolationLocked()
	l.fenced = violated
	l.mu.Unlock()

	if violated {
		return ErrLedgerFenced
	}
	l.reportOrphans(ctx)
	return nil
}

func (l *Ledger) checkFenced() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fenced {
		return ErrLedgerFenced
	}
	return nil
}

// conflictLocked returns the id of an active appointment overlapping iv, or
// "" when the interval is free locally. Holds count as occupied.
func (l *Ledger) conflictLocked(iv models.TimeInterval, excludeID string) string {
	seen := make(map[string]bool)
	for _, key := range dayKeys(iv) {
		for _, id := range l.dayIndex[key] {
			if id == excludeID || seen[id] {
				continue
			}
			seen[id] = true
			appt, ok := l.appointments[id]
			if !ok || !appt.Active() {
				continue
			}
			if Overlaps(iv, appt.Interval) {
				return id
			}
		}
	}
	for id, held := range l.holds {
		if Overlaps(iv, held) {
			return id
		}
	}
	return ""
}

func (l *Ledger) overlapViolationLocked() bool {
	var confirmed []*models.Appointment
	for _, appt := range l.appointments {
		if appt.Status == models.AppointmentConfirmed {
			confirmed = append(confirmed, appt)
		}
	}
	for i := 0; i < len(confirmed); i++ {
		for j := i + 1; j < len(confirmed); j++ {
			if Overlaps(confirmed[i].Interval, confirmed[j].Interval) {
				l.logger.Error("overlapping confirmed appointments",
					zap.String("first", confirmed[i].ID),
					zap.String("second", confirmed[j].ID))
				return true
			}
		}
	}
	return false
}

func (l *Ledger) rollback(ctx context.Context, apptID string) {
	l.mu.Lock()
	appt, ok := l.appointments[apptID]
	if ok {
		appt.Status = models.AppointmentCancelled
		l.unindexLocked(apptID, appt.Interval)
	}
	l.mu.Unlock()

	if err := l.repo.UpdateStatus(ctx, apptID, models.AppointmentCancelled); err != nil {
		l.logger.Error("failed to persist rollback",
			zap.String("appointmentID", apptID), zap.Error(err))
	}
}

func (l *Ledger) releaseHold(holdID string) {
	l.mu.Lock()
	delete(l.holds, holdID)
	l.mu.Unlock()
}

// writeExternal commits the event with a bounded timeout, detached from the
// caller's cancellation: once started, the write runs to completion and the
// outcome is recorded even if the caller stopped waiting.
func (l *Ledger) writeExternal(ctx context.Context, appt *models.Appointment) (string, error) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.extTimeout)
	defer cancel()
	return l.cal.WriteAppointment(wctx, l.calendarID, appt.Interval, calendar.EventMetadata{
		OwnerID: appt.OwnerID,
	})
}

func (l *Ledger) deleteExternal(ctx context.Context, eventRef string) {
	if eventRef == "" {
		return
	}
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.extTimeout)
	defer cancel()
	if err := l.cal.DeleteAppointment(dctx, l.calendarID, eventRef); err != nil {
		l.logger.Warn("best-effort external delete failed",
			zap.String("eventRef", eventRef), zap.Error(err))
	}
}

func (l *Ledger) scheduleReminder(ctx context.Context, appt models.Appointment) {
	if l.reminders == nil {
		return
	}
	if err := l.reminders.ScheduleReminder(ctx, appt); err != nil {
		l.logger.Warn("failed to schedule reminder",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}
}

func (l *Ledger) cancelReminder(ctx context.Context, apptID string) {
	if l.reminders == nil {
		return
	}
	if err := l.reminders.CancelReminder(ctx, apptID); err != nil {
		l.logger.Warn("failed to cancel reminder",
			zap.String("appointmentID", apptID), zap.Error(err))
	}
}

// reportOrphans logs external events that have no matching local record.
// Orphans are never auto-deleted; an operator decides what to do with them.
func (l *Ledger) reportOrphans(ctx context.Context) {
	now := l.now()
	refs, err := l.cal.ListEventRefs(ctx, l.calendarID, now, now.Add(reconcileHorizon))
	if err != nil {
		l.logger.Warn("reconciliation could not list external events", zap.Error(err))
		return
	}

	l.mu.Lock()
	known := make(map[string]bool, len(l.appointments))
	for _, appt := range l.appointments {
		if appt.ExternalEventRef != "" {
			known[appt.ExternalEventRef] = true
		}
	}
	l.mu.Unlock()

	for _, ref := range refs {
		if !known[ref] {
			l.logger.Warn("orphaned external event with no local appointment",
				zap.String("calendarID", l.calendarID), zap.String("eventRef", ref))
		}
	}
}

func (l *Ledger) indexLocked(apptID string, iv models.TimeInterval) {
	for _, key := range dayKeys(iv) {
		l.dayIndex[key] = append(l.dayIndex[key], apptID)
	}
}

func (l *Ledger) unindexLocked(apptID string, iv models.TimeInterval) {
	for _, key := range dayKeys(iv) {
		ids := l.dayIndex[key]
		for i, id := range ids {
			if id == apptID {
				l.dayIndex[key] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(l.dayIndex[key]) == 0 {
			delete(l.dayIndex, key)
		}
	}
}

// dayKeys buckets an interval by the UTC dates it touches. End is half-open
// so an interval ending exactly at midnight does not spill into the next day.
func dayKeys(iv models.TimeInterval) []string {
	var keys []string
	last := iv.End.Add(-time.Nanosecond).UTC()
	for day := startOfDay(iv.Start.UTC()); !day.After(last); day = day.AddDate(0, 0, 1) {
		keys = append(keys, day.Format("2006-01-02"))
	}
	return keys
}
