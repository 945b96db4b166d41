package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeInterval(t *testing.T) {
	start := time.Date(2030, 6, 3, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	iv, err := NewTimeInterval(start, end)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, iv.Duration())

	_, err = NewTimeInterval(end, start)
	assert.Error(t, err, "inverted span")

	_, err = NewTimeInterval(start, start)
	assert.Error(t, err, "zero-length span")
}

func TestNewTimeIntervalNormalizesToUTC(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	start := time.Date(2030, 6, 3, 13, 0, 0, 0, moscow)
	iv, err := NewTimeInterval(start, start.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, time.UTC, iv.Start.Location())
	assert.Equal(t, time.Date(2030, 6, 3, 10, 0, 0, 0, time.UTC), iv.Start)
}

func TestTimeIntervalEqual(t *testing.T) {
	start := time.Date(2030, 6, 3, 10, 0, 0, 0, time.UTC)
	a, err := NewTimeInterval(start, start.Add(time.Hour))
	require.NoError(t, err)

	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	b, err := NewTimeInterval(start.In(moscow), start.Add(time.Hour).In(moscow))
	require.NoError(t, err)

	assert.True(t, a.Equal(b), "same instants in different zones are equal")

	c, err := NewTimeInterval(start, start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
}

func TestAppointmentActive(t *testing.T) {
	appt := Appointment{Status: AppointmentPending}
	assert.True(t, appt.Active())
	appt.Status = AppointmentConfirmed
	assert.True(t, appt.Active())
	appt.Status = AppointmentCancelled
	assert.False(t, appt.Active())
}
