package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbook/models"
)

var base = time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC)

func iv(startHour, endHour int) models.TimeInterval {
	return models.TimeInterval{
		Start: base.Add(time.Duration(startHour) * time.Hour),
		End:   base.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(iv(9, 11), iv(10, 12)), "partial overlap")
	assert.True(t, Overlaps(iv(9, 12), iv(10, 11)), "containment")
	assert.True(t, Overlaps(iv(9, 10), iv(9, 10)), "identical")
	assert.False(t, Overlaps(iv(9, 10), iv(10, 11)), "touching endpoints do not overlap")
	assert.False(t, Overlaps(iv(10, 11), iv(9, 10)), "touching endpoints, reversed")
	assert.False(t, Overlaps(iv(9, 10), iv(12, 13)), "disjoint")
}

func TestMergeIntervals(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, MergeIntervals(nil))
	})

	t.Run("overlapping and adjacent spans join", func(t *testing.T) {
		merged := MergeIntervals([]models.TimeInterval{
			iv(13, 14), // adjacent to [12,13)
			iv(9, 11),
			iv(12, 13),
			iv(10, 12),
		})
		require.Len(t, merged, 1)
		assert.True(t, merged[0].Equal(iv(9, 14)))
	})

	t.Run("disjoint spans stay separate and sorted", func(t *testing.T) {
		merged := MergeIntervals([]models.TimeInterval{iv(15, 16), iv(9, 10)})
		require.Len(t, merged, 2)
		assert.True(t, merged[0].Equal(iv(9, 10)))
		assert.True(t, merged[1].Equal(iv(15, 16)))
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := []models.TimeInterval{iv(12, 13), iv(9, 10)}
		MergeIntervals(in)
		assert.True(t, in[0].Equal(iv(12, 13)))
		assert.True(t, in[1].Equal(iv(9, 10)))
	})
}

func TestSubtractIntervals(t *testing.T) {
	universe := iv(9, 18)

	t.Run("no busy returns universe", func(t *testing.T) {
		free := SubtractIntervals(universe, nil)
		require.Len(t, free, 1)
		assert.True(t, free[0].Equal(universe))
	})

	t.Run("busy in the middle splits", func(t *testing.T) {
		free := SubtractIntervals(universe, []models.TimeInterval{iv(12, 13)})
		require.Len(t, free, 2)
		assert.True(t, free[0].Equal(iv(9, 12)))
		assert.True(t, free[1].Equal(iv(13, 18)))
	})

	t.Run("busy covering universe leaves nothing", func(t *testing.T) {
		free := SubtractIntervals(universe, []models.TimeInterval{iv(8, 19)})
		assert.Empty(t, free)
	})

	t.Run("busy hanging over edges is clipped", func(t *testing.T) {
		free := SubtractIntervals(universe, []models.TimeInterval{iv(8, 10), iv(17, 20)})
		require.Len(t, free, 1)
		assert.True(t, free[0].Equal(iv(10, 17)))
	})

	t.Run("busy entirely outside is ignored", func(t *testing.T) {
		free := SubtractIntervals(universe, []models.TimeInterval{iv(6, 8), iv(20, 22)})
		require.Len(t, free, 1)
		assert.True(t, free[0].Equal(universe))
	})
}

// Free and busy must partition the universe regardless of the busy layout.
func TestSubtractIntervalsProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	universe := iv(0, 24)

	for round := 0; round < 200; round++ {
		var raw []models.TimeInterval
		for n := rng.Intn(6); n > 0; n-- {
			start := rng.Intn(23)
			raw = append(raw, iv(start, start+1+rng.Intn(24-start-1)))
		}
		busy := MergeIntervals(raw)
		free := SubtractIntervals(universe, busy)

		for _, f := range free {
			for _, b := range busy {
				assert.False(t, Overlaps(f, b), "free %s overlaps busy %s", f, b)
			}
		}

		var covered time.Duration
		for _, f := range free {
			covered += f.Duration()
		}
		for _, b := range busy {
			covered += b.Duration()
		}
		assert.Equal(t, universe.Duration(), covered, "free+busy must cover the universe exactly")
	}
}
