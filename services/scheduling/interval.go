package scheduling

import (
	"sort"

	"slotbook/models"
)

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not overlap.
func Overlaps(a, b models.TimeInterval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// MergeIntervals collapses a set of intervals into a disjoint, sorted,
// minimal cover. Overlapping and adjacent spans are joined. The input is
// not modified.
func MergeIntervals(intervals []models.TimeInterval) []models.TimeInterval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]models.TimeInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []models.TimeInterval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		// Adjacent spans (iv.Start == last.End) merge as well.
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// SubtractIntervals returns the free remainder of universe after removing a
// sorted disjoint busy set (as produced by MergeIntervals), in order.
func SubtractIntervals(universe models.TimeInterval, busy []models.TimeInterval) []models.TimeInterval {
	var free []models.TimeInterval
	cursor := universe.Start

	for _, b := range busy {
		if !b.End.After(universe.Start) {
			continue
		}
		if !b.Start.Before(universe.End) {
			break
		}
		if b.Start.After(cursor) {
			free = append(free, models.TimeInterval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(universe.End) {
		free = append(free, models.TimeInterval{Start: cursor, End: universe.End})
	}
	return free
}
