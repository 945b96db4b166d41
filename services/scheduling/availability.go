package scheduling

import (
	"context"
	"time"

	"go.uber.org/zap"

	"slotbook/models"
	"slotbook/services/calendar"
	"slotbook/utils"
)

// DateRange selects the calendar dates to resolve, inclusive on both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ResolveOptions tunes a single availability query.
type ResolveOptions struct {
	// IncludePast reports slots that have fully elapsed as Busy instead of
	// dropping them. Past slots are never reported Free either way.
	IncludePast bool
}

// AvailabilityResolver combines working-hours candidate slots with busy
// intervals from the external calendar. It holds no state and takes no
// locks; Book re-validates under the ledger lock regardless of what an
// earlier resolve saw.
type AvailabilityResolver struct {
	Calendar calendar.Client
	Hours    models.WorkingHoursConfig
	Logger   *zap.Logger
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewAvailabilityResolver wires a resolver with the global logger.
func NewAvailabilityResolver(cal calendar.Client, hours models.WorkingHoursConfig) *AvailabilityResolver {
	return &AvailabilityResolver{
		Calendar: cal,
		Hours:    hours,
		Logger:   utils.GetLogger(),
		Now:      time.Now,
	}
}

// Resolve computes the ordered Free/Busy slot list for a date range with a
// single busy read over the whole window. On a collaborator failure it
// returns no partial results: a slot is never reported Free on incomplete
// busy data.
func (r *AvailabilityResolver) Resolve(ctx context.Context, calendarID string, rng DateRange, opts ResolveOptions) (models.AvailabilityResult, error) {
	now := r.now()
	loc := r.Hours.Location()

	from := startOfDay(rng.From.In(loc))
	to := startOfDay(rng.To.In(loc))
	result := models.AvailabilityResult{
		CalendarID: calendarID,
		From:       from.UTC(),
		To:         to.AddDate(0, 0, 1).UTC(),
	}
	if to.Before(from) {
		result.AvailabilityError = "empty date range"
		return result, nil
	}

	windowStart := time.Date(from.Year(), from.Month(), from.Day(), r.Hours.StartHour, 0, 0, 0, loc)
	windowEnd := time.Date(to.Year(), to.Month(), to.Day(), r.Hours.EndHour, 0, 0, 0, loc)

	raw, err := r.Calendar.ReadBusyIntervals(ctx, calendarID, windowStart.UTC(), windowEnd.UTC())
	if err != nil {
		r.Logger.Error("failed to read busy intervals",
			zap.String("calendarID", calendarID), zap.Error(err))
		return models.AvailabilityResult{}, &CollaboratorError{Op: "read busy intervals", Err: err, Retryable: true}
	}
	busy := MergeIntervals(raw)

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, candidate := range CandidateSlots(day, r.Hours) {
			past := !candidate.End.After(now)
			if past && !opts.IncludePast {
				continue
			}

			status := models.SlotFree
			if past || overlapsAny(candidate, busy) {
				status = models.SlotBusy
			}
			result.Slots = append(result.Slots, models.Slot{Interval: candidate, Status: status})
		}
	}

	if len(result.Slots) == 0 {
		result.AvailabilityError = "no slots available in the selected range"
	}
	return result, nil
}

// IntervalFree checks a single interval against the external busy data.
// Used by the ledger as the read-then-check step before reserving.
func (r *AvailabilityResolver) IntervalFree(ctx context.Context, calendarID string, iv models.TimeInterval) (bool, error) {
	raw, err := r.Calendar.ReadBusyIntervals(ctx, calendarID, iv.Start, iv.End)
	if err != nil {
		return false, &CollaboratorError{Op: "read busy intervals", Err: err, Retryable: true}
	}
	return !overlapsAny(iv, MergeIntervals(raw)), nil
}

func (r *AvailabilityResolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func overlapsAny(iv models.TimeInterval, busy []models.TimeInterval) bool {
	for _, b := range busy {
		if Overlaps(iv, b) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
