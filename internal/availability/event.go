package availability

import "time"

// Event is an event occupying one or more courts. Windows are optional
// explicit sub-ranges of Range.
type Event struct {
	ID      string
	Range   Interval
	Windows []Interval
}

// EventOccupancy returns the intervals during which ev blocks its courts,
// for every local day touched by ref. On a day where the event has explicit
// windows those are used; on a day without any, the whole event range is.
func EventOccupancy(ev Event, ref Interval, loc *time.Location) []Interval {
	var out []Interval
	seen := make(map[[2]int64]bool)
	add := func(iv Interval) {
		key := [2]int64{iv.Start.UnixNano(), iv.End.UnixNano()}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, iv)
	}

	for day := DayWindow(ref.Start, loc); day.Start.Before(ref.End); day = DayWindow(day.End, loc) {
		matched := false
		for _, w := range ev.Windows {
			if Overlaps(w, day) {
				add(w)
				matched = true
			}
		}
		if !matched {
			add(ev.Range)
		}
	}
	return out
}

// Occupancy merges booking intervals and event occupancy into one list.
func Occupancy(bookings []Interval, events []Event, ref Interval, loc *time.Location) []Interval {
	out := make([]Interval, 0, len(bookings)+len(events))
	out = append(out, bookings...)
	for _, ev := range events {
		out = append(out, EventOccupancy(ev, ref, loc)...)
	}
	return out
}
