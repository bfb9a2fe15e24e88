package request

import "time"

type SearchOffersRequest struct {
	Sport string `json:"sport" validate:"max=50"`
	City  string `json:"city" validate:"max=100"`
	Query string `json:"q" validate:"max=100"`
	Sort  string `json:"sort" validate:"omitempty,oneof=endsSoon discount price"`
	OffsetRequest
}

// CreateOfferRequest carries either a discount or an absolute price.
type CreateOfferRequest struct {
	CourtID        string    `json:"court_id" validate:"required,uuid"`
	Title          string    `json:"title" validate:"required,max=200"`
	Description    string    `json:"description"`
	DiscountPct    *float64  `json:"discount_pct,omitempty" validate:"required_without=Price,omitempty,gte=0,lte=100"`
	Price          *float64  `json:"price,omitempty" validate:"required_without=DiscountPct,omitempty,gte=0"`
	OriginalPrice  *float64  `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	ValidHourStart *int      `json:"valid_hour_start,omitempty" validate:"required_with=ValidHourEnd,omitempty,gte=0,lte=23"`
	ValidHourEnd   *int      `json:"valid_hour_end,omitempty" validate:"required_with=ValidHourStart,omitempty,gte=1,lte=24"`
	Featured       bool      `json:"featured"`
}
