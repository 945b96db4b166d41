package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbook/models"
)

func newTestService(cal *fakeCalendar, repo *fakeRepo) *DefaultSchedulingService {
	resolver := newTestResolver(cal)
	return &DefaultSchedulingService{
		Registry:  NewLedgerRegistry(repo, cal, resolver, nil, time.Second),
		Resolver:  resolver,
		Repo:      repo,
		Calendars: map[string]bool{testCalendarID: true},
	}
}

func TestServiceRejectsMalformedInput(t *testing.T) {
	svc := newTestService(newFakeCalendar(), newFakeRepo())
	ctx := context.Background()
	var validation *ValidationError

	_, err := svc.Book(ctx, "", "owner-1", base.Add(10*time.Hour), base.Add(11*time.Hour))
	require.ErrorAs(t, err, &validation, "empty calendar id")

	_, err = svc.Book(ctx, "someone-elses-calendar", "owner-1", base.Add(10*time.Hour), base.Add(11*time.Hour))
	require.ErrorAs(t, err, &validation, "unknown calendar identity")

	_, err = svc.Book(ctx, testCalendarID, "", base.Add(10*time.Hour), base.Add(11*time.Hour))
	require.ErrorAs(t, err, &validation, "empty owner id")

	_, err = svc.Book(ctx, testCalendarID, "owner-1", base.Add(11*time.Hour), base.Add(10*time.Hour))
	require.ErrorAs(t, err, &validation, "inverted interval")

	_, err = svc.Book(ctx, testCalendarID, "owner-1", base.Add(10*time.Hour), base.Add(10*time.Hour))
	require.ErrorAs(t, err, &validation, "zero-length interval")

	_, err = svc.Reschedule(ctx, testCalendarID, "", base.Add(10*time.Hour), base.Add(11*time.Hour))
	require.ErrorAs(t, err, &validation, "empty appointment id")

	_, err = svc.Cancel(ctx, testCalendarID, "")
	require.ErrorAs(t, err, &validation, "empty appointment id on cancel")

	_, err = svc.ListOwnerAppointments(ctx, testCalendarID, "")
	require.ErrorAs(t, err, &validation, "empty owner id on list")
}

func TestServiceBookLifecycle(t *testing.T) {
	svc := newTestService(newFakeCalendar(), newFakeRepo())
	ctx := context.Background()

	appt, err := svc.Book(ctx, testCalendarID, "owner-1", base.Add(10*time.Hour), base.Add(11*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentConfirmed, appt.Status)

	moved, err := svc.Reschedule(ctx, testCalendarID, appt.ID, base.Add(14*time.Hour), base.Add(15*time.Hour))
	require.NoError(t, err)
	assert.True(t, moved.Interval.Equal(iv(14, 15)))

	cancelled, err := svc.Cancel(ctx, testCalendarID, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)
}

func TestServiceListOwnerAppointmentsIncludesCancelled(t *testing.T) {
	svc := newTestService(newFakeCalendar(), newFakeRepo())
	ctx := context.Background()

	first, err := svc.Book(ctx, testCalendarID, "owner-1", base.Add(10*time.Hour), base.Add(11*time.Hour))
	require.NoError(t, err)
	_, err = svc.Book(ctx, testCalendarID, "owner-1", base.Add(14*time.Hour), base.Add(15*time.Hour))
	require.NoError(t, err)
	_, err = svc.Book(ctx, testCalendarID, "owner-2", base.Add(16*time.Hour), base.Add(17*time.Hour))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, testCalendarID, first.ID)
	require.NoError(t, err)

	appts, err := svc.ListOwnerAppointments(ctx, testCalendarID, "owner-1")
	require.NoError(t, err)
	assert.Len(t, appts, 2, "cancelled appointments stay in the owner's history")
}

func TestServiceListAvailability(t *testing.T) {
	cal := newFakeCalendar()
	cal.busy = []models.TimeInterval{iv(10, 11)}
	svc := newTestService(cal, newFakeRepo())

	result, err := svc.ListAvailability(context.Background(), testCalendarID, singleDay(), ResolveOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Slots, 9)
	assert.Len(t, result.FreeSlots(), 8)
}

func TestRegistryReusesLedgerPerCalendar(t *testing.T) {
	cal := newFakeCalendar()
	repo := newFakeRepo()
	reg := NewLedgerRegistry(repo, cal, newTestResolver(cal), nil, time.Second)

	first, err := reg.ForCalendar(context.Background(), testCalendarID)
	require.NoError(t, err)
	second, err := reg.ForCalendar(context.Background(), testCalendarID)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := reg.ForCalendar(context.Background(), "other")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestRegistryConcurrentFirstTouch(t *testing.T) {
	cal := newFakeCalendar()
	repo := newFakeRepo()
	reg := NewLedgerRegistry(repo, cal, newTestResolver(cal), nil, time.Second)

	const callers = 16
	ledgers := make(chan *Ledger, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l, err := reg.ForCalendar(context.Background(), testCalendarID)
			assert.NoError(t, err)
			ledgers <- l
		}()
	}
	wg.Wait()
	close(ledgers)

	first := <-ledgers
	for l := range ledgers {
		assert.Same(t, first, l, "every caller must see the same ledger")
	}
}
