package response

import (
	"time"

	"court-booking/internal/data/entity"
)

type OfferResponse struct {
	ID                    string         `json:"id"`
	CourtID               string         `json:"court_id"`
	Title                 string         `json:"title"`
	Description           string         `json:"description"`
	DiscountPct           *float64       `json:"discount_pct"`
	Price                 *float64       `json:"price"`
	OriginalPrice         *float64       `json:"original_price"`
	EffectivePricePerHour *float64       `json:"effective_price_per_hour,omitempty"`
	StartsAt              time.Time      `json:"starts_at"`
	EndsAt                time.Time      `json:"ends_at"`
	ValidHourStart        *int           `json:"valid_hour_start"`
	ValidHourEnd          *int           `json:"valid_hour_end"`
	Featured              bool           `json:"featured"`
	Court                 *CourtResponse `json:"court,omitempty"`
}

// Helper converters
func OfferToResponse(offer *entity.Offer) OfferResponse {
	return OfferResponse{
		ID:             offer.ID.String(),
		CourtID:        offer.CourtID.String(),
		Title:          offer.Title,
		Description:    offer.Description,
		DiscountPct:    offer.DiscountPct,
		Price:          offer.Price,
		OriginalPrice:  offer.OriginalPrice,
		StartsAt:       offer.StartsAt,
		EndsAt:         offer.EndsAt,
		ValidHourStart: offer.ValidHourStart,
		ValidHourEnd:   offer.ValidHourEnd,
		Featured:       offer.Featured,
	}
}

// OfferWithCourtToResponse includes the court and the hourly rate the offer
// yields on it.
func OfferWithCourtToResponse(offer *entity.OfferWithCourt, effective float64) OfferResponse {
	resp := OfferToResponse(&offer.Offer)
	court := CourtToResponse(&offer.Court)
	resp.Court = &court
	resp.EffectivePricePerHour = &effective
	return resp
}
