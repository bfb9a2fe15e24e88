package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"court-booking/internal/availability"
	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OfferService interface {
	SearchOffers(ctx context.Context, req *request.SearchOffersRequest) (*response.PaginatedResponse[response.OfferResponse], error)

	// Admin endpoints
	CreateOffer(ctx context.Context, req *request.CreateOfferRequest) (*response.OfferResponse, error)
	DeleteOffer(ctx context.Context, offerID string) error
}

type offerService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewOfferService(repo *repository.Repository, log *zap.Logger) OfferService {
	return &offerService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "offer")),
	}
}

// SearchOffers lists offers active right now, each with the hourly rate it
// yields on its court.
func (s *offerService) SearchOffers(ctx context.Context, req *request.SearchOffersRequest) (*response.PaginatedResponse[response.OfferResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	sortBy := repository.OfferSort(req.Sort)
	if sortBy == "" {
		sortBy = repository.OfferSortEndsSoon
	}

	rows, total, err := s.repo.Offer.Search(ctx, repository.OfferFilter{
		Now:    s.now(),
		Sport:  req.Sport,
		City:   req.City,
		Query:  req.Query,
		Sort:   sortBy,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		s.log.Error("Failed to search offers", zap.Error(err), zap.String("sort", string(sortBy)))
		return nil, fmt.Errorf("search offers: %w", err)
	}

	offers := make([]response.OfferResponse, len(rows))
	for i, row := range rows {
		o := toAvailabilityOffer(&row.Offer)
		quote := availability.DerivePrice(row.Court.PricePerHour, &o, 1)
		offers[i] = response.OfferWithCourtToResponse(row, quote.EffectivePerHour)
	}

	return response.NewPaginatedResponse(offers, req.Limit, req.Offset, total), nil
}

// ==================== ADMIN METHODS ====================

func (s *offerService) CreateOffer(ctx context.Context, req *request.CreateOfferRequest) (*response.OfferResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create offer validation failed", zap.Error(err))
		return nil, err
	}
	if req.ValidHourStart != nil && req.ValidHourEnd != nil && *req.ValidHourStart >= *req.ValidHourEnd {
		return nil, invalidf("valid_hour_start must be before valid_hour_end")
	}

	courtID, err := parseID("court", req.CourtID)
	if err != nil {
		return nil, err
	}
	court, err := findCourt(ctx, s.repo, courtID)
	if err != nil {
		return nil, err
	}

	offer := &entity.Offer{
		BaseSimple:     entity.BaseSimple{ID: uuid.New(), CreatedAt: s.now()},
		CourtID:        court.ID,
		Title:          req.Title,
		Description:    req.Description,
		DiscountPct:    req.DiscountPct,
		Price:          roundPtr(req.Price),
		OriginalPrice:  roundPtr(req.OriginalPrice),
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		ValidHourStart: req.ValidHourStart,
		ValidHourEnd:   req.ValidHourEnd,
		Featured:       req.Featured,
	}

	if err := s.repo.Offer.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}

	s.log.Info("Offer created",
		zap.String("offer_id", offer.ID.String()),
		zap.String("court_id", req.CourtID),
		zap.Time("ends_at", offer.EndsAt),
	)

	resp := response.OfferToResponse(offer)
	return &resp, nil
}

func (s *offerService) DeleteOffer(ctx context.Context, offerID string) error {
	id, err := parseID("offer", offerID)
	if err != nil {
		return err
	}

	if err := s.repo.Offer.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("offer %s: %w", offerID, ErrNotFound)
		}
		return fmt.Errorf("delete offer %s: %w", offerID, err)
	}

	s.log.Info("Offer deleted", zap.String("offer_id", offerID))
	return nil
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := availability.Round2(*v)
	return &r
}
