package availability

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Offer is a time and hour bounded price override for one court.
// Price, when set, wins over DiscountPct.
type Offer struct {
	ID             string
	CourtID        string
	Title          string
	DiscountPct    *float64
	Price          *float64
	OriginalPrice  *float64
	StartsAt       time.Time
	EndsAt         time.Time
	ValidHourStart *int
	ValidHourEnd   *int
}

// HourRestricted reports whether the offer only applies to part of the day.
// Both bounds must be present; a single bound is ignored.
func (o Offer) HourRestricted() bool {
	return o.ValidHourStart != nil && o.ValidHourEnd != nil
}

// EligibleAt reports whether the offer applies at instant t whose local
// wall-clock hour is hour.
func (o Offer) EligibleAt(t time.Time, hour int) bool {
	if t.Before(o.StartsAt) || !t.Before(o.EndsAt) {
		return false
	}
	if o.HourRestricted() {
		return hour >= *o.ValidHourStart && hour < *o.ValidHourEnd
	}
	return true
}

func (o Offer) discount() decimal.Decimal {
	if o.DiscountPct == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*o.DiscountPct)
}

// ResolveOffer picks the offer applying at t, or nil. When several are
// eligible the cheapest effective hourly rate wins, then the larger
// discount, then the earliest end, then the smallest id.
func ResolveOffer(offers []Offer, basePerHour float64, t time.Time, loc *time.Location) *Offer {
	hour := t.In(loc).Hour()

	eligible := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if o.EligibleAt(t, hour) {
			eligible = append(eligible, o)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	base := decimal.NewFromFloat(basePerHour)
	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		ra, rb := effectiveRate(base, &a), effectiveRate(base, &b)
		if c := ra.Cmp(rb); c != 0 {
			return c < 0
		}
		if c := a.discount().Cmp(b.discount()); c != 0 {
			return c > 0
		}
		if !a.EndsAt.Equal(b.EndsAt) {
			return a.EndsAt.Before(b.EndsAt)
		}
		return a.ID < b.ID
	})

	best := eligible[0]
	return &best
}
