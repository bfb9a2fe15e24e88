package adaptor

import (
	"court-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Court   *CourtHandler
	Booking *BookingHandler
	Invite  *InviteHandler
	Event   *EventHandler
	Offer   *OfferHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Court:   NewCourtHandler(service.Court, log),
		Booking: NewBookingHandler(service.Booking, log),
		Invite:  NewInviteHandler(service.Invite, log),
		Event:   NewEventHandler(service.Event, log),
		Offer:   NewOfferHandler(service.Offer, log),
	}
}
