package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbook/models"
)

func singleDay() DateRange {
	return DateRange{From: base, To: base}
}

func TestResolveMarksOverlappedSlotsBusy(t *testing.T) {
	cal := newFakeCalendar()
	cal.busy = []models.TimeInterval{
		{Start: base.Add(12 * time.Hour), End: base.Add(13*time.Hour + 30*time.Minute)},
	}
	r := newTestResolver(cal)

	result, err := r.Resolve(context.Background(), testCalendarID, singleDay(), ResolveOptions{})
	require.NoError(t, err)
	require.Len(t, result.Slots, 9)

	for _, s := range result.Slots {
		switch {
		case s.Interval.Equal(iv(12, 13)), s.Interval.Equal(iv(13, 14)):
			assert.Equal(t, models.SlotBusy, s.Status, "slot %s overlaps the busy span", s.Interval)
		default:
			assert.Equal(t, models.SlotFree, s.Status, "slot %s is clear", s.Interval)
		}
	}
	assert.Len(t, result.FreeSlots(), 7)
}

func TestResolveDropsPastSlots(t *testing.T) {
	cal := newFakeCalendar()
	r := newTestResolver(cal)
	r.Now = func() time.Time { return base.Add(13 * time.Hour) }

	result, err := r.Resolve(context.Background(), testCalendarID, singleDay(), ResolveOptions{})
	require.NoError(t, err)

	// Slots ending at or before 13:00 are gone; 13:00-18:00 remain.
	require.Len(t, result.Slots, 5)
	assert.True(t, result.Slots[0].Interval.Equal(iv(13, 14)))
}

func TestResolveIncludePastReportsElapsedAsBusy(t *testing.T) {
	cal := newFakeCalendar()
	r := newTestResolver(cal)
	r.Now = func() time.Time { return base.Add(13 * time.Hour) }

	result, err := r.Resolve(context.Background(), testCalendarID, singleDay(), ResolveOptions{IncludePast: true})
	require.NoError(t, err)
	require.Len(t, result.Slots, 9)

	for _, s := range result.Slots {
		if !s.Interval.End.After(base.Add(13 * time.Hour)) {
			assert.Equal(t, models.SlotBusy, s.Status, "elapsed slot %s must never be free", s.Interval)
		} else {
			assert.Equal(t, models.SlotFree, s.Status)
		}
	}
}

func TestResolveFailsClosedOnCalendarError(t *testing.T) {
	cal := newFakeCalendar()
	cal.readErr = errors.New("calendar timeout")
	r := newTestResolver(cal)

	result, err := r.Resolve(context.Background(), testCalendarID, singleDay(), ResolveOptions{})
	var collab *CollaboratorError
	require.ErrorAs(t, err, &collab)
	assert.Empty(t, result.Slots, "no partial availability on incomplete busy data")
}

func TestResolveEmptyRange(t *testing.T) {
	cal := newFakeCalendar()
	r := newTestResolver(cal)

	result, err := r.Resolve(context.Background(), testCalendarID, DateRange{From: base, To: base.AddDate(0, 0, -1)}, ResolveOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Slots)
	assert.NotEmpty(t, result.AvailabilityError)
}

func TestResolveMultiDayRange(t *testing.T) {
	cal := newFakeCalendar()
	r := newTestResolver(cal)

	result, err := r.Resolve(context.Background(), testCalendarID, DateRange{From: base, To: base.AddDate(0, 0, 1)}, ResolveOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Slots, 18)
}

func TestResolveIsRepeatable(t *testing.T) {
	cal := newFakeCalendar()
	cal.busy = []models.TimeInterval{iv(10, 11)}
	r := newTestResolver(cal)

	first, err := r.Resolve(context.Background(), testCalendarID, singleDay(), ResolveOptions{})
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), testCalendarID, singleDay(), ResolveOptions{})
	require.NoError(t, err)

	require.Equal(t, len(first.Slots), len(second.Slots))
	for i := range first.Slots {
		assert.True(t, first.Slots[i].Interval.Equal(second.Slots[i].Interval))
		assert.Equal(t, first.Slots[i].Status, second.Slots[i].Status)
	}
}

func TestIntervalFree(t *testing.T) {
	cal := newFakeCalendar()
	cal.busy = []models.TimeInterval{iv(10, 12)}
	r := newTestResolver(cal)

	free, err := r.IntervalFree(context.Background(), testCalendarID, iv(14, 15))
	require.NoError(t, err)
	assert.True(t, free)

	free, err = r.IntervalFree(context.Background(), testCalendarID, iv(11, 12))
	require.NoError(t, err)
	assert.False(t, free)

	// Touching the busy span is still free.
	free, err = r.IntervalFree(context.Background(), testCalendarID, iv(12, 13))
	require.NoError(t, err)
	assert.True(t, free)
}
