package usecase

import (
	"context"

	"court-booking/internal/data/repository"
	"court-booking/pkg/mq"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Court   CourtService
	Booking BookingService
	Invite  InviteService
	Event   EventService
	Offer   OfferService
}

func NewService(repo *repository.Repository, config *utils.Config, publisher mq.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = mq.NopPublisher{}
	}

	return &Service{
		Court:   NewCourtService(repo, config.Venue, log),
		Booking: NewBookingService(repo, config.Venue, publisher, log),
		Invite:  NewInviteService(repo, publisher, log),
		Event:   NewEventService(repo, log),
		Offer:   NewOfferService(repo, log),
	}
}

// publish sends a domain event. Failures are logged, never returned.
func publish(ctx context.Context, p mq.Publisher, log *zap.Logger, key string, payload any) {
	if err := p.PublishJSON(ctx, key, payload); err != nil {
		log.Warn("Failed to publish event", zap.Error(err), zap.String("routing_key", key))
	}
}
