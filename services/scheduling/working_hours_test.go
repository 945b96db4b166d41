package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbook/models"
)

func TestCandidateSlotsDefaultDay(t *testing.T) {
	cfg := models.WorkingHoursConfig{StartHour: 9, EndHour: 18, SlotDurationMinutes: 60, Timezone: "UTC"}
	slots := CandidateSlots(base, cfg)

	require.Len(t, slots, 9)
	assert.True(t, slots[0].Equal(iv(9, 10)))
	assert.True(t, slots[8].Equal(iv(17, 18)))

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.Equal(slots[i-1].End), "slots must be consecutive")
	}
}

func TestCandidateSlotsDropsTrailingPartial(t *testing.T) {
	cfg := models.WorkingHoursConfig{StartHour: 9, EndHour: 18, SlotDurationMinutes: 50, Timezone: "UTC"}
	slots := CandidateSlots(base, cfg)

	// 540 minutes fit 10 full 50-minute slots; the 40-minute remainder is dropped.
	require.Len(t, slots, 10)
	last := slots[len(slots)-1]
	assert.Equal(t, time.Date(2030, 6, 3, 17, 20, 0, 0, time.UTC), last.End)
}

func TestCandidateSlotsWindowShorterThanSlot(t *testing.T) {
	cfg := models.WorkingHoursConfig{StartHour: 9, EndHour: 10, SlotDurationMinutes: 90, Timezone: "UTC"}
	assert.Empty(t, CandidateSlots(base, cfg))
}

func TestCandidateSlotsTimezoneConversion(t *testing.T) {
	cfg := models.WorkingHoursConfig{StartHour: 9, EndHour: 18, SlotDurationMinutes: 60, Timezone: "Europe/Moscow"}
	slots := CandidateSlots(base, cfg)

	// Moscow is UTC+3: a 09:00 local start is 06:00 UTC.
	require.NotEmpty(t, slots)
	assert.Equal(t, time.Date(2030, 6, 3, 6, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.UTC, slots[0].Start.Location())
}

func TestCandidateSlotsDeterministic(t *testing.T) {
	cfg := models.WorkingHoursConfig{StartHour: 9, EndHour: 18, SlotDurationMinutes: 60, Timezone: "Europe/Moscow"}
	first := CandidateSlots(base, cfg)
	second := CandidateSlots(base, cfg)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].Equal(second[i]))
	}
}

func TestWorkingHoursConfigValidate(t *testing.T) {
	valid := models.WorkingHoursConfig{StartHour: 9, EndHour: 18, SlotDurationMinutes: 60, Timezone: "Europe/Moscow"}
	assert.NoError(t, valid.Validate())

	cases := []models.WorkingHoursConfig{
		{StartHour: 18, EndHour: 9, SlotDurationMinutes: 60, Timezone: "UTC"},
		{StartHour: -1, EndHour: 9, SlotDurationMinutes: 60, Timezone: "UTC"},
		{StartHour: 9, EndHour: 25, SlotDurationMinutes: 60, Timezone: "UTC"},
		{StartHour: 9, EndHour: 18, SlotDurationMinutes: 0, Timezone: "UTC"},
		{StartHour: 9, EndHour: 18, SlotDurationMinutes: 60, Timezone: "Mars/OlympusMons"},
	}
	for _, c := range cases {
		assert.Error(t, c.Validate(), "config %+v should be rejected", c)
	}
}
