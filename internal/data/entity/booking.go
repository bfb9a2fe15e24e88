package entity

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	BaseSimple
	CourtID        uuid.UUID  `db:"court_id"`
	UserID         uuid.UUID  `db:"user_id"`
	StartAt        time.Time  `db:"start_at"`
	EndAt          time.Time  `db:"end_at"`
	PriceEUR       float64    `db:"price_eur"`
	AppliedOfferID *uuid.UUID `db:"applied_offer_id"`
}

// BookingWithCourt is a booking joined with the court it occupies.
type BookingWithCourt struct {
	Booking
	Court Court
	// Guest is set when the viewer joined through an accepted invite,
	// InviteID then names that invite.
	Guest    bool
	InviteID *uuid.UUID
}
