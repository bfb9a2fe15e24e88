package availability

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// OperatingHours is the bookable part of a day. Close is exclusive, so
// {7, 24} yields slots starting at 07:00 through 23:00.
type OperatingHours struct {
	Open  int
	Close int
}

var DefaultHours = OperatingHours{Open: 7, Close: 24}

func (h OperatingHours) valid() bool {
	return h.Open >= 0 && h.Close <= 24 && h.Open < h.Close
}

// Contains reports whether a booking of the given length starting at hour
// fits inside the operating hours.
func (h OperatingHours) Contains(hour, hours int) bool {
	return hour >= h.Open && hours > 0 && hour+hours <= h.Close
}

// ParseDate parses YYYY-MM-DD as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// DayWindow returns [local midnight, next local midnight) for the calendar
// day containing date in loc.
func DayWindow(date time.Time, loc *time.Location) Interval {
	y, m, d := date.In(loc).Date()
	return Interval{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d+1, 0, 0, 0, 0, loc),
	}
}

// SlotStart builds the instant hour:00 on the calendar day of date in loc.
func SlotStart(date time.Time, hour int, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, hour, 0, 0, 0, loc)
}

// SlotInterval is [hour:00, (hour+hours):00) on the calendar day of date.
func SlotInterval(date time.Time, hour, hours int, loc *time.Location) Interval {
	y, m, d := date.In(loc).Date()
	return Interval{
		Start: time.Date(y, m, d, hour, 0, 0, 0, loc),
		End:   time.Date(y, m, d, hour+hours, 0, 0, 0, loc),
	}
}
