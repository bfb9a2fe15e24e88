package entity

import (
	"time"

	"github.com/google/uuid"
)

type Offer struct {
	BaseSimple
	CourtID        uuid.UUID `db:"court_id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	DiscountPct    *float64  `db:"discount_pct"`
	Price          *float64  `db:"price"`
	OriginalPrice  *float64  `db:"original_price"`
	StartsAt       time.Time `db:"starts_at"`
	EndsAt         time.Time `db:"ends_at"`
	ValidHourStart *int      `db:"valid_hour_start"`
	ValidHourEnd   *int      `db:"valid_hour_end"`
	Featured       bool      `db:"featured"`
}

type OfferWithCourt struct {
	Offer
	Court Court
}
