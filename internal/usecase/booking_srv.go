package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"court-booking/internal/availability"
	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/mq"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Protected endpoints (require auth)
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	GetMyBookings(ctx context.Context, userID string) ([]response.BookingResponse, error)
	CancelBooking(ctx context.Context, userID, bookingID string) error
}

type bookingService struct {
	repo      *repository.Repository
	publisher mq.Publisher
	venue     venue
	now       func() time.Time
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, cfg utils.VenueConfig, publisher mq.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		publisher: publisher,
		venue:     newVenue(cfg),
		now:       time.Now,
		log:       log.With(zap.String("service", "booking")),
	}
}

type bookingEvent struct {
	BookingID      string    `json:"booking_id"`
	CourtID        string    `json:"court_id"`
	UserID         string    `json:"user_id"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	PriceEUR       float64   `json:"price_eur"`
	AppliedOfferID *string   `json:"applied_offer_id,omitempty"`
}

func newBookingEvent(b *entity.Booking) bookingEvent {
	ev := bookingEvent{
		BookingID: b.ID.String(),
		CourtID:   b.CourtID.String(),
		UserID:    b.UserID.String(),
		StartAt:   b.StartAt,
		EndAt:     b.EndAt,
		PriceEUR:  b.PriceEUR,
	}
	if b.AppliedOfferID != nil {
		id := b.AppliedOfferID.String()
		ev.AppliedOfferID = &id
	}
	return ev
}

// CreateBooking re-checks the requested interval against bookings and event
// occupancy, prices it, and inserts it inside one serializable transaction.
// The bookings exclusion constraint rejects anything that slips past the
// check; both paths surface as ErrConflict.
func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	userUUID, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	courtID, err := parseID("court", req.CourtID)
	if err != nil {
		return nil, err
	}

	ref, hours, err := s.venue.resolveSlot(req.SlotRequest)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if ref.Start.Before(now) {
		return nil, invalidf("cannot book a slot that starts in the past")
	}

	var booking *entity.Booking
	err = s.repo.Tx.WithinSerializable(ctx, func(tx *repository.Repository) error {
		court, err := findCourt(ctx, tx, courtID)
		if err != nil {
			return err
		}

		ids := []uuid.UUID{court.ID}
		occupied, err := loadOccupancy(ctx, tx, ids, ref, s.venue.loc)
		if err != nil {
			return err
		}
		if conflicts := availability.FilterOverlapping(ref, occupied[court.ID]); len(conflicts) > 0 {
			return fmt.Errorf("court %s is taken from %s: %w",
				court.ID, conflicts[0].Start.In(s.venue.loc).Format(time.RFC3339), ErrConflict)
		}

		offers, err := loadOffers(ctx, tx, ids, ref)
		if err != nil {
			return err
		}
		offer := availability.ResolveOffer(offers[court.ID], court.PricePerHour, ref.Start, s.venue.loc)
		quote := availability.DerivePrice(court.PricePerHour, offer, hours)

		booking = &entity.Booking{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			CourtID:        court.ID,
			UserID:         userUUID,
			StartAt:        ref.Start,
			EndAt:          ref.End,
			PriceEUR:       quote.Total,
			AppliedOfferID: appliedOfferID(quote.Offer),
		}
		return tx.Booking.Create(ctx, booking)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrConflict), errors.Is(err, ErrNotFound):
			s.log.Warn("Booking rejected", zap.Error(err), zap.String("court_id", req.CourtID), zap.Time("start_at", ref.Start))
			return nil, err
		}
		if cerr := asConflict(err, "create booking"); cerr != nil {
			s.log.Warn("Booking lost a concurrent race", zap.Error(err), zap.String("court_id", req.CourtID), zap.Time("start_at", ref.Start))
			return nil, cerr
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("court_id", req.CourtID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("court_id", req.CourtID),
		zap.String("user_id", userID),
		zap.Time("start_at", booking.StartAt),
		zap.Int("hours", hours),
		zap.Float64("price_eur", booking.PriceEUR),
	)

	publish(ctx, s.publisher, s.log, mq.KeyBookingCreated, newBookingEvent(booking))

	resp := response.BookingToCreateResponse(booking)
	return &resp, nil
}

// GetMyBookings lists upcoming bookings the user owns or joined as a guest,
// earliest first.
func (s *bookingService) GetMyBookings(ctx context.Context, userID string) ([]response.BookingResponse, error) {
	userUUID, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	owned, err := s.repo.Booking.FindUpcomingByUser(ctx, userUUID, now)
	if err != nil {
		s.log.Error("Failed to get user bookings", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get user bookings: %w", err)
	}
	guest, err := s.repo.Booking.FindUpcomingByGuest(ctx, userUUID, now)
	if err != nil {
		s.log.Error("Failed to get guest bookings", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get guest bookings: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(owned)+len(guest))
	merged := make([]*entity.BookingWithCourt, 0, len(owned)+len(guest))
	for _, b := range append(owned, guest...) {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		merged = append(merged, b)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartAt.Before(merged[j].StartAt)
	})

	bookings := make([]response.BookingResponse, len(merged))
	for i, b := range merged {
		bookings[i] = response.BookingToResponse(b)
	}
	return bookings, nil
}

// CancelBooking deletes a booking. Only its owner may cancel it.
func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID string) error {
	userUUID, err := parseID("user", userID)
	if err != nil {
		return err
	}
	id, err := parseID("booking", bookingID)
	if err != nil {
		return err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if booking.UserID != userUUID {
		s.log.Warn("Cancel booking denied", zap.String("booking_id", bookingID), zap.String("user_id", userID))
		return fmt.Errorf("booking %s belongs to another user: %w", bookingID, ErrForbidden)
	}
	if !booking.EndAt.After(s.now()) {
		return fmt.Errorf("booking %s has already ended: %w", bookingID, ErrConflict)
	}

	if err := s.repo.Booking.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking cancelled", zap.String("booking_id", bookingID), zap.String("user_id", userID))
	publish(ctx, s.publisher, s.log, mq.KeyBookingCancelled, newBookingEvent(booking))

	return nil
}
