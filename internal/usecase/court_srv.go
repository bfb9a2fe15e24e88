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
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CourtService interface {
	// Public endpoints
	SearchCourts(ctx context.Context, req *request.SearchCourtsRequest) (*response.CourtSearchResponse, error)
	GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error)
	GetDayView(ctx context.Context, courtID string, req *request.DayViewRequest) (*response.DayViewResponse, error)
	QuotePrice(ctx context.Context, courtID string, req *request.QuoteRequest) (*response.QuoteResponse, error)

	// Admin endpoints
	CreateCourt(ctx context.Context, req *request.CreateCourtRequest) (*response.CourtResponse, error)
	UpdateCourt(ctx context.Context, courtID string, req *request.UpdateCourtRequest) (*response.CourtResponse, error)
}

type courtService struct {
	repo  *repository.Repository
	venue venue
	now   func() time.Time
	log   *zap.Logger
}

func NewCourtService(repo *repository.Repository, cfg utils.VenueConfig, log *zap.Logger) CourtService {
	return &courtService{
		repo:  repo,
		venue: newVenue(cfg),
		now:   time.Now,
		log:   log.With(zap.String("service", "court")),
	}
}

// findCourt loads a court or returns ErrNotFound.
func findCourt(ctx context.Context, repo *repository.Repository, id uuid.UUID) (*entity.Court, error) {
	court, err := repo.Court.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get court %s: %w", id, err)
	}
	if court == nil {
		return nil, fmt.Errorf("court %s: %w", id, ErrNotFound)
	}
	return court, nil
}

func (s *courtService) SearchCourts(ctx context.Context, req *request.SearchCourtsRequest) (*response.CourtSearchResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Search courts validation failed", zap.Error(err))
		return nil, err
	}

	date, err := s.venue.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	ref, err := s.venue.slotInterval(date, *req.Hour, req.Duration)
	if err != nil {
		return nil, err
	}

	courts, err := s.repo.Court.Search(ctx, repository.CourtFilter{
		Sport: req.Sport,
		City:  req.City,
		Query: req.Query,
	})
	if err != nil {
		s.log.Error("Failed to search courts", zap.Error(err), zap.String("sport", req.Sport))
		return nil, fmt.Errorf("search courts: %w", err)
	}

	result := &response.CourtSearchResponse{
		Available:   []response.CourtSearchItem{},
		Conflicting: []response.CourtSearchItem{},
	}
	if len(courts) == 0 {
		return result, nil
	}

	ids := courtIDs(courts)
	occupied, err := loadOccupancy(ctx, s.repo, ids, ref, s.venue.loc)
	if err != nil {
		s.log.Error("Failed to load occupancy", zap.Error(err), zap.Int("courts", len(ids)))
		return nil, fmt.Errorf("search courts: %w", err)
	}
	offers, err := loadOffers(ctx, s.repo, ids, ref)
	if err != nil {
		s.log.Error("Failed to load offers", zap.Error(err), zap.Int("courts", len(ids)))
		return nil, fmt.Errorf("search courts: %w", err)
	}

	for _, court := range courts {
		ann := availability.Annotate(court.PricePerHour, occupied[court.ID], offers[court.ID], ref, req.Duration, s.venue.loc)
		item := response.CourtToSearchItem(court, ann.Quote)
		if ann.Available {
			result.Available = append(result.Available, item)
		} else {
			result.Conflicting = append(result.Conflicting, item)
		}
	}

	s.log.Debug("Courts searched",
		zap.String("sport", req.Sport),
		zap.Time("start_at", ref.Start),
		zap.Int("available", len(result.Available)),
		zap.Int("conflicting", len(result.Conflicting)),
	)

	return result, nil
}

func (s *courtService) GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error) {
	id, err := parseID("court", courtID)
	if err != nil {
		return nil, err
	}

	court, err := findCourt(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) GetDayView(ctx context.Context, courtID string, req *request.DayViewRequest) (*response.DayViewResponse, error) {
	id, err := parseID("court", courtID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	date, err := s.venue.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	court, err := findCourt(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	window := availability.DayWindow(date, s.venue.loc)
	ids := []uuid.UUID{court.ID}
	occupied, err := loadOccupancy(ctx, s.repo, ids, window, s.venue.loc)
	if err != nil {
		s.log.Error("Failed to load occupancy", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("day view: %w", err)
	}
	offers, err := loadOffers(ctx, s.repo, ids, window)
	if err != nil {
		s.log.Error("Failed to load offers", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("day view: %w", err)
	}

	slots := availability.MaterializeDay(availability.DayInput{
		Date:        date,
		Location:    s.venue.loc,
		Hours:       s.venue.hours,
		BasePerHour: court.PricePerHour,
		Occupied:    occupied[court.ID],
		Offers:      offers[court.ID],
	})

	resp := &response.DayViewResponse{
		CourtID: court.ID.String(),
		Date:    date.Format(availability.DateLayout),
		Slots:   make([]response.SlotResponse, len(slots)),
	}
	for i, slot := range slots {
		resp.Slots[i] = response.SlotToResponse(slot)
	}
	return resp, nil
}

// QuotePrice previews the price a booking of the requested slot would be
// charged, and whether the slot is still free.
func (s *courtService) QuotePrice(ctx context.Context, courtID string, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	id, err := parseID("court", courtID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	ref, hours, err := s.venue.resolveSlot(req.SlotRequest)
	if err != nil {
		return nil, err
	}

	court, err := findCourt(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{court.ID}
	occupied, err := loadOccupancy(ctx, s.repo, ids, ref, s.venue.loc)
	if err != nil {
		s.log.Error("Failed to load occupancy", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("quote price: %w", err)
	}
	offers, err := loadOffers(ctx, s.repo, ids, ref)
	if err != nil {
		s.log.Error("Failed to load offers", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("quote price: %w", err)
	}

	ann := availability.Annotate(court.PricePerHour, occupied[court.ID], offers[court.ID], ref, hours, s.venue.loc)
	return &response.QuoteResponse{
		StartAt:               ref.Start,
		EndAt:                 ref.End,
		PricePerHour:          ann.Quote.BasePerHour,
		EffectivePricePerHour: ann.Quote.EffectivePerHour,
		TotalPrice:            ann.Quote.Total,
		DurationHours:         ann.Quote.Hours,
		ActiveOffer:           response.OfferToActive(ann.Quote.Offer),
		Available:             ann.Available && !ref.Start.Before(s.now()),
	}, nil
}

// ==================== ADMIN METHODS ====================

func (s *courtService) CreateCourt(ctx context.Context, req *request.CreateCourtRequest) (*response.CourtResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create court validation failed", zap.Error(err))
		return nil, err
	}

	now := s.now()
	court := &entity.Court{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Sport:        req.Sport,
		Address:      req.Address,
		City:         req.City,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		PricePerHour: availability.Round2(req.PricePerHour),
	}

	if err := s.repo.Court.Create(ctx, court); err != nil {
		return nil, fmt.Errorf("create court: %w", err)
	}

	s.log.Info("Court created",
		zap.String("court_id", court.ID.String()),
		zap.String("name", court.Name),
		zap.String("sport", court.Sport),
	)

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) UpdateCourt(ctx context.Context, courtID string, req *request.UpdateCourtRequest) (*response.CourtResponse, error) {
	id, err := parseID("court", courtID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		s.log.Warn("Update court validation failed", zap.Error(err))
		return nil, err
	}

	court, err := findCourt(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		court.Name = *req.Name
	}
	if req.Sport != nil {
		court.Sport = *req.Sport
	}
	if req.Address != nil {
		court.Address = *req.Address
	}
	if req.City != nil {
		court.City = *req.City
	}
	if req.Description != nil {
		court.Description = *req.Description
	}
	if req.ImageURL != nil {
		court.ImageURL = *req.ImageURL
	}
	if req.PricePerHour != nil {
		court.PricePerHour = availability.Round2(*req.PricePerHour)
	}
	court.UpdatedAt = s.now()

	if err := s.repo.Court.Update(ctx, court); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("court %s: %w", courtID, ErrNotFound)
		}
		return nil, fmt.Errorf("update court %s: %w", courtID, err)
	}

	s.log.Info("Court updated", zap.String("court_id", courtID))

	resp := response.CourtToResponse(court)
	return &resp, nil
}
