package availability

import "time"

// Slot is one bookable hour of a court's day.
type Slot struct {
	Hour      int
	Start     time.Time
	End       time.Time
	Available bool
	Quote     Quote
}

// DayInput is everything needed to lay out one court's day.
type DayInput struct {
	Date        time.Time
	Location    *time.Location
	Hours       OperatingHours
	BasePerHour float64
	Occupied    []Interval
	Offers      []Offer
}

// MaterializeDay returns one slot per operating hour in ascending order.
// Each slot is checked against Occupied and priced with the offer resolved
// at its own start instant.
func MaterializeDay(in DayInput) []Slot {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	hours := in.Hours
	if !hours.valid() {
		hours = DefaultHours
	}

	slots := make([]Slot, 0, hours.Close-hours.Open)
	for h := hours.Open; h < hours.Close; h++ {
		iv := SlotInterval(in.Date, h, 1, loc)
		offer := ResolveOffer(in.Offers, in.BasePerHour, iv.Start, loc)
		slots = append(slots, Slot{
			Hour:      h,
			Start:     iv.Start,
			End:       iv.End,
			Available: !AnyOverlap(iv, in.Occupied),
			Quote:     DerivePrice(in.BasePerHour, offer, 1),
		})
	}
	return slots
}

// CourtAvailability is a search result annotation for one court.
type CourtAvailability struct {
	Available bool
	Conflicts []Interval
	Quote     Quote
}

// Annotate checks ref against occupied and prices it for hours hours with
// the offer resolved at ref.Start.
func Annotate(basePerHour float64, occupied []Interval, offers []Offer, ref Interval, hours int, loc *time.Location) CourtAvailability {
	conflicts := FilterOverlapping(ref, occupied)
	offer := ResolveOffer(offers, basePerHour, ref.Start, loc)
	return CourtAvailability{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
		Quote:     DerivePrice(basePerHour, offer, hours),
	}
}
