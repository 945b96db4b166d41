package models

import (
	"fmt"
	"time"
)

// TimeInterval is a half-open time span [Start, End). Endpoints that merely
// touch do not overlap. Intervals are stored in UTC and converted to the
// configured timezone only for display.
type TimeInterval struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// NewTimeInterval builds a normalized interval, rejecting zero or inverted
// spans. All interval algebra downstream assumes inputs passed this check.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, fmt.Errorf("invalid interval: start %s is not before end %s", start, end)
	}
	return TimeInterval{Start: start.UTC(), End: end.UTC()}, nil
}

// Duration returns End - Start.
func (iv TimeInterval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Equal reports whether both endpoints match to the instant.
func (iv TimeInterval) Equal(other TimeInterval) bool {
	return iv.Start.Equal(other.Start) && iv.End.Equal(other.End)
}

func (iv TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}
