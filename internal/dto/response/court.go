package response

import (
	"time"

	"court-booking/internal/availability"
	"court-booking/internal/data/entity"
)

type CourtResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Sport        string    `json:"sport"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	PricePerHour float64   `json:"price_per_hour"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ActiveOffer is the offer applied to a price, if any.
type ActiveOffer struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	DiscountPct    *float64  `json:"discount_pct"`
	Price          *float64  `json:"price"`
	OriginalPrice  *float64  `json:"original_price"`
	EndsAt         time.Time `json:"ends_at"`
	ValidHourStart *int      `json:"valid_hour_start"`
	ValidHourEnd   *int      `json:"valid_hour_end"`
}

type CourtSearchItem struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	Sport                 string       `json:"sport"`
	Address               string       `json:"address"`
	City                  string       `json:"city"`
	Description           string       `json:"description"`
	ImageURL              string       `json:"image_url"`
	PricePerHour          float64      `json:"price_per_hour"`
	EffectivePricePerHour float64      `json:"effective_price_per_hour"`
	TotalPrice            float64      `json:"total_price"`
	ActiveOffer           *ActiveOffer `json:"active_offer"`
}

type CourtSearchResponse struct {
	Available   []CourtSearchItem `json:"available"`
	Conflicting []CourtSearchItem `json:"conflicting"`
}

type SlotResponse struct {
	Hour                  int          `json:"hour"`
	StartAt               time.Time    `json:"start_at"`
	EndAt                 time.Time    `json:"end_at"`
	Available             bool         `json:"available"`
	PricePerHour          float64      `json:"price_per_hour"`
	EffectivePricePerHour float64      `json:"effective_price_per_hour"`
	ActiveOffer           *ActiveOffer `json:"active_offer"`
}

type DayViewResponse struct {
	CourtID string         `json:"court_id"`
	Date    string         `json:"date"`
	Slots   []SlotResponse `json:"slots"`
}

type QuoteResponse struct {
	StartAt               time.Time    `json:"start_at"`
	EndAt                 time.Time    `json:"end_at"`
	PricePerHour          float64      `json:"price_per_hour"`
	EffectivePricePerHour float64      `json:"effective_price_per_hour"`
	TotalPrice            float64      `json:"total_price"`
	DurationHours         int          `json:"duration_hours"`
	ActiveOffer           *ActiveOffer `json:"active_offer"`
	Available             bool         `json:"available"`
}

// Helper converters
func CourtToResponse(court *entity.Court) CourtResponse {
	return CourtResponse{
		ID:           court.ID.String(),
		Name:         court.Name,
		Sport:        court.Sport,
		Address:      court.Address,
		City:         court.City,
		Description:  court.Description,
		ImageURL:     court.ImageURL,
		PricePerHour: court.PricePerHour,
		CreatedAt:    court.CreatedAt,
		UpdatedAt:    court.UpdatedAt,
	}
}

func OfferToActive(o *availability.Offer) *ActiveOffer {
	if o == nil {
		return nil
	}
	return &ActiveOffer{
		ID:             o.ID,
		Title:          o.Title,
		DiscountPct:    o.DiscountPct,
		Price:          o.Price,
		OriginalPrice:  o.OriginalPrice,
		EndsAt:         o.EndsAt,
		ValidHourStart: o.ValidHourStart,
		ValidHourEnd:   o.ValidHourEnd,
	}
}

func CourtToSearchItem(court *entity.Court, q availability.Quote) CourtSearchItem {
	return CourtSearchItem{
		ID:                    court.ID.String(),
		Name:                  court.Name,
		Sport:                 court.Sport,
		Address:               court.Address,
		City:                  court.City,
		Description:           court.Description,
		ImageURL:              court.ImageURL,
		PricePerHour:          q.BasePerHour,
		EffectivePricePerHour: q.EffectivePerHour,
		TotalPrice:            q.Total,
		ActiveOffer:           OfferToActive(q.Offer),
	}
}

func SlotToResponse(slot availability.Slot) SlotResponse {
	return SlotResponse{
		Hour:                  slot.Hour,
		StartAt:               slot.Start,
		EndAt:                 slot.End,
		Available:             slot.Available,
		PricePerHour:          slot.Quote.BasePerHour,
		EffectivePricePerHour: slot.Quote.EffectivePerHour,
		ActiveOffer:           OfferToActive(slot.Quote.Offer),
	}
}
