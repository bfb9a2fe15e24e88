package availability

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Quote is the price of a booking of Hours hours.
type Quote struct {
	BasePerHour      float64
	EffectivePerHour float64
	Total            float64
	Hours            int
	Offer            *Offer
}

// effectiveRate applies o to base. An absolute price is used verbatim;
// a percentage discount is rounded to cents, half away from zero.
func effectiveRate(base decimal.Decimal, o *Offer) decimal.Decimal {
	switch {
	case o == nil:
		return base
	case o.Price != nil:
		return decimal.NewFromFloat(*o.Price)
	case o.DiscountPct != nil:
		pct := decimal.NewFromFloat(*o.DiscountPct)
		return base.Mul(hundred.Sub(pct)).Div(hundred).Round(2)
	default:
		return base
	}
}

// DerivePrice computes the hourly and total price of hours hours at base
// per hour with offer o applied. Inputs are not clamped.
func DerivePrice(basePerHour float64, o *Offer, hours int) Quote {
	base := decimal.NewFromFloat(basePerHour)
	rate := effectiveRate(base, o)
	total := rate.Mul(decimal.NewFromInt(int64(hours))).Round(2)

	return Quote{
		BasePerHour:      basePerHour,
		EffectivePerHour: rate.InexactFloat64(),
		Total:            total.InexactFloat64(),
		Hours:            hours,
		Offer:            o,
	}
}

// Round2 rounds v to cents, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
