// Package availability resolves court occupancy, discount offers and prices.
// Everything here is pure: callers fetch rows, convert them and pass them in.
package availability

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval has positive length.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether a and b share at least one instant.
// Back-to-back intervals (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// FilterOverlapping returns the intervals that overlap ref, keeping input order.
func FilterOverlapping(ref Interval, intervals []Interval) []Interval {
	out := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if Overlaps(ref, iv) {
			out = append(out, iv)
		}
	}
	return out
}

// AnyOverlap reports whether any interval overlaps ref.
func AnyOverlap(ref Interval, intervals []Interval) bool {
	for _, iv := range intervals {
		if Overlaps(ref, iv) {
			return true
		}
	}
	return false
}
