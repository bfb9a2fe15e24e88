package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	// Public endpoints
	SearchEvents(ctx context.Context, req *request.SearchEventsRequest) (*response.PaginatedResponse[response.EventResponse], error)
	GetEvent(ctx context.Context, eventID, viewerID string) (*response.EventDetailResponse, error)

	// Protected endpoints (require auth)
	GetMyEvents(ctx context.Context, userID string) ([]response.EventResponse, error)
	JoinEvent(ctx context.Context, userID, eventID string) error
	LeaveEvent(ctx context.Context, userID, eventID string) error

	// Admin endpoints
	CreateEvent(ctx context.Context, req *request.CreateEventRequest) (*response.EventDetailResponse, error)
}

type eventService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewEventService(repo *repository.Repository, log *zap.Logger) EventService {
	return &eventService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "event")),
	}
}

func (s *eventService) findEvent(ctx context.Context, eventID string) (*entity.Event, error) {
	id, err := parseID("event", eventID)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	return event, nil
}

// withPrimaryCourts converts events, attaching each one's first court.
func (s *eventService) withPrimaryCourts(ctx context.Context, events []*entity.Event) ([]response.EventResponse, error) {
	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}

	courts, err := s.repo.Court.FindByEventIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get event courts: %w", err)
	}

	out := make([]response.EventResponse, len(events))
	for i, e := range events {
		primary, _ := utils.First(courts[e.ID])
		out[i] = response.EventToResponse(e, primary)
	}
	return out, nil
}

// SearchEvents lists events that have not ended yet unless From says
// otherwise, soonest first.
func (s *eventService) SearchEvents(ctx context.Context, req *request.SearchEventsRequest) (*response.PaginatedResponse[response.EventResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.From != nil && req.To != nil && !req.To.After(*req.From) {
		return nil, invalidf("to must be after from")
	}

	filter := repository.EventFilter{
		Sport:  req.Sport,
		City:   req.City,
		Query:  req.Query,
		From:   s.now(),
		To:     req.To,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.From != nil {
		filter.From = *req.From
	}

	events, total, err := s.repo.Event.Search(ctx, filter)
	if err != nil {
		s.log.Error("Failed to search events", zap.Error(err), zap.String("sport", req.Sport))
		return nil, fmt.Errorf("search events: %w", err)
	}

	items, err := s.withPrimaryCourts(ctx, events)
	if err != nil {
		s.log.Error("Failed to load event courts", zap.Error(err))
		return nil, err
	}

	return response.NewPaginatedResponse(items, req.Limit, req.Offset, total), nil
}

// GetEvent returns an event with its courts and RSVP count. IsJoined is
// set only when viewerID is a signed-in user.
func (s *eventService) GetEvent(ctx context.Context, eventID, viewerID string) (*response.EventDetailResponse, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	courtsByEvent, err := s.repo.Court.FindByEventIDs(ctx, []uuid.UUID{event.ID})
	if err != nil {
		s.log.Error("Failed to load event courts", zap.Error(err), zap.String("event_id", eventID))
		return nil, fmt.Errorf("get event courts: %w", err)
	}
	courts := courtsByEvent[event.ID]

	windows, err := s.repo.Event.FindWindows(ctx, event.ID)
	if err != nil {
		s.log.Error("Failed to load event windows", zap.Error(err), zap.String("event_id", eventID))
		return nil, fmt.Errorf("get event windows: %w", err)
	}

	count, err := s.repo.Event.CountRSVPs(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}

	joined := false
	if viewerID != "" {
		if viewer, err := uuid.Parse(viewerID); err == nil {
			if joined, err = s.repo.Event.HasRSVP(ctx, event.ID, viewer); err != nil {
				return nil, fmt.Errorf("check rsvp: %w", err)
			}
		}
	}

	primary, _ := utils.First(courts)
	detail := response.EventToDetailResponse(event, primary, courts, windows, count, joined)
	return &detail, nil
}

func (s *eventService) GetMyEvents(ctx context.Context, userID string) ([]response.EventResponse, error) {
	userUUID, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.Event.FindJoinedByUser(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to get joined events", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get joined events: %w", err)
	}

	return s.withPrimaryCourts(ctx, events)
}

// JoinEvent records the user's RSVP. Ended or full events, and repeat
// RSVPs, are conflicts.
func (s *eventService) JoinEvent(ctx context.Context, userID, eventID string) error {
	userUUID, err := parseID("user", userID)
	if err != nil {
		return err
	}
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return err
	}

	now := s.now()
	if !event.EndAt.After(now) {
		return fmt.Errorf("event %s has ended: %w", eventID, ErrConflict)
	}

	if event.TeamSize != nil && event.CapacityTeams != nil {
		count, err := s.repo.Event.CountRSVPs(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("count rsvps: %w", err)
		}
		capacity := *event.TeamSize * *event.CapacityTeams
		if count >= int64(capacity) {
			return fmt.Errorf("event %s is full: %w", eventID, ErrConflict)
		}
	}

	err = s.repo.Event.AddRSVP(ctx, &entity.EventRSVP{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		EventID:    event.ID,
		UserID:     userUUID,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			return fmt.Errorf("already joined event %s: %w", eventID, ErrConflict)
		}
		return fmt.Errorf("join event %s: %w", eventID, err)
	}

	s.log.Info("Event joined", zap.String("event_id", eventID), zap.String("user_id", userID))
	return nil
}

func (s *eventService) LeaveEvent(ctx context.Context, userID, eventID string) error {
	userUUID, err := parseID("user", userID)
	if err != nil {
		return err
	}
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.repo.Event.RemoveRSVP(ctx, event.ID, userUUID); err != nil {
		return fmt.Errorf("leave event %s: %w", eventID, err)
	}

	s.log.Info("Event left", zap.String("event_id", eventID), zap.String("user_id", userID))
	return nil
}

// ==================== ADMIN METHODS ====================

// CreateEvent stores an event, its windows and its courts in one
// transaction. Windows must lie inside the event range.
func (s *eventService) CreateEvent(ctx context.Context, req *request.CreateEventRequest) (*response.EventDetailResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create event validation failed", zap.Error(err))
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(req.CourtIDs))
	ids := make([]uuid.UUID, 0, len(req.CourtIDs))
	for _, raw := range req.CourtIDs {
		id, err := parseID("court", raw)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	now := s.now()
	event := &entity.Event{
		BaseSimple:    entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		Title:         req.Title,
		Sport:         req.Sport,
		Description:   req.Description,
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		TeamSize:      req.TeamSize,
		CapacityTeams: req.CapacityTeams,
	}

	windows := make([]*entity.EventWindow, len(req.Windows))
	for i, w := range req.Windows {
		if w.StartAt.Before(req.StartAt) || w.EndAt.After(req.EndAt) {
			return nil, invalidf("window %d must lie within the event", i+1)
		}
		windows[i] = &entity.EventWindow{ID: uuid.New(), EventID: event.ID, StartAt: w.StartAt, EndAt: w.EndAt}
	}

	courts := make([]*entity.Court, 0, len(ids))
	err := s.repo.Tx.WithinSerializable(ctx, func(tx *repository.Repository) error {
		courts = courts[:0]
		for _, id := range ids {
			court, err := findCourt(ctx, tx, id)
			if err != nil {
				return err
			}
			courts = append(courts, court)
		}
		if err := tx.Event.Create(ctx, event); err != nil {
			return err
		}
		if err := tx.Event.AddWindows(ctx, windows); err != nil {
			return err
		}
		return tx.Event.AddCourts(ctx, event.ID, ids)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.Error("Failed to create event", zap.Error(err), zap.String("title", req.Title))
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("title", event.Title),
		zap.Int("courts", len(ids)),
		zap.Int("windows", len(windows)),
	)

	stored := make([]entity.EventWindow, len(windows))
	for i, w := range windows {
		stored[i] = *w
	}
	primary, _ := utils.First(courts)
	detail := response.EventToDetailResponse(event, primary, courts, stored, 0, false)
	return &detail, nil
}
