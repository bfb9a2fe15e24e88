package repository

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EventFilter narrows event search. Zero values match everything.
type EventFilter struct {
	Sport  string
	City   string
	Query  string
	From   time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	AddWindows(ctx context.Context, windows []*entity.EventWindow) error
	AddCourts(ctx context.Context, eventID uuid.UUID, courtIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindWindows(ctx context.Context, eventID uuid.UUID) ([]entity.EventWindow, error)
	Search(ctx context.Context, filter EventFilter) ([]*entity.Event, int64, error)

	// FindOccupying returns events attached to courtIDs whose range intersects
	// [start, end), one entry per (court, event), each with all its windows.
	FindOccupying(ctx context.Context, courtIDs []uuid.UUID, start, end time.Time) ([]*entity.CourtEvent, error)

	// RSVP
	AddRSVP(ctx context.Context, rsvp *entity.EventRSVP) error
	RemoveRSVP(ctx context.Context, eventID, userID uuid.UUID) error
	CountRSVPs(ctx context.Context, eventID uuid.UUID) (int64, error)
	HasRSVP(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	FindJoinedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Event, error)
}

type eventRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewEventRepository(db database.Querier, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

const eventColumns = `e.id, e.title, e.sport, e.description, e.start_at, e.end_at, e.team_size, e.capacity_teams, e.created_at`

func scanEvent(row pgx.Row, e *entity.Event) error {
	return row.Scan(
		&e.ID,
		&e.Title,
		&e.Sport,
		&e.Description,
		&e.StartAt,
		&e.EndAt,
		&e.TeamSize,
		&e.CapacityTeams,
		&e.CreatedAt,
	)
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (id, title, sport, description, start_at, end_at, team_size, capacity_teams, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Sport,
		event.Description,
		event.StartAt,
		event.EndAt,
		event.TeamSize,
		event.CapacityTeams,
		event.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create event", zap.Error(err), zap.String("title", event.Title))
		return fmt.Errorf("create event %s: %w", event.Title, err)
	}

	return nil
}

func (r *eventRepository) AddWindows(ctx context.Context, windows []*entity.EventWindow) error {
	for _, w := range windows {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO event_windows (id, event_id, start_at, end_at) VALUES ($1, $2, $3, $4)`,
			w.ID, w.EventID, w.StartAt, w.EndAt,
		); err != nil {
			r.log.Error("Failed to add event window",
				zap.Error(err),
				zap.String("event_id", w.EventID.String()),
			)
			return fmt.Errorf("add window to event %s: %w", w.EventID.String(), err)
		}
	}

	return nil
}

func (r *eventRepository) AddCourts(ctx context.Context, eventID uuid.UUID, courtIDs []uuid.UUID) error {
	query := `
		INSERT INTO event_courts (event_id, court_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, eventID, courtIDs); err != nil {
		r.log.Error("Failed to attach courts to event",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return fmt.Errorf("attach courts to event %s: %w", eventID.String(), err)
	}

	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`

	var event entity.Event
	err := scanEvent(r.db.QueryRow(ctx, query, id), &event)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by ID", zap.Error(err), zap.String("event_id", id.String()))
		return nil, fmt.Errorf("find event by ID %s: %w", id.String(), err)
	}

	return &event, nil
}

func (r *eventRepository) Search(ctx context.Context, filter EventFilter) ([]*entity.Event, int64, error) {
	where := `
		WHERE e.end_at > $1
		  AND ($2::timestamptz IS NULL OR e.start_at < $2)
		  AND ($3 = '' OR e.sport = $3)
		  AND ($4 = '' OR e.title ILIKE '%' || $4 || '%' OR e.description ILIKE '%' || $4 || '%')
		  AND ($5 = '' OR EXISTS (
		        SELECT 1 FROM event_courts ec JOIN courts c ON c.id = ec.court_id
		        WHERE ec.event_id = e.id AND c.city ILIKE '%' || $5 || '%'))
	`
	args := []any{filter.From, filter.To, filter.Sport, filter.Query, filter.City}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count events", zap.Error(err))
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := `SELECT ` + eventColumns + ` FROM events e` + where + `
		ORDER BY e.start_at ASC, e.id ASC
		LIMIT $6 OFFSET $7
	`
	rows, err := r.db.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		r.log.Error("Failed to search events",
			zap.Error(err),
			zap.String("sport", filter.Sport),
			zap.String("city", filter.City),
		)
		return nil, 0, fmt.Errorf("search events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var e entity.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &e)
	}

	return events, total, rows.Err()
}

func (r *eventRepository) FindOccupying(ctx context.Context, courtIDs []uuid.UUID, start, end time.Time) ([]*entity.CourtEvent, error) {
	if len(courtIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ec.court_id, ` + eventColumns + `
		FROM event_courts ec
		JOIN events e ON e.id = ec.event_id
		WHERE ec.court_id = ANY($1)
		  AND e.start_at < $3
		  AND e.end_at > $2
	`

	rows, err := r.db.Query(ctx, query, courtIDs, start, end)
	if err != nil {
		r.log.Error("Failed to find occupying events", zap.Error(err), zap.Int("courts", len(courtIDs)))
		return nil, fmt.Errorf("find occupying events: %w", err)
	}

	var occupying []*entity.CourtEvent
	var eventIDs []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for rows.Next() {
		var ce entity.CourtEvent
		e := &ce.Event
		if err := rows.Scan(
			&ce.CourtID,
			&e.ID,
			&e.Title,
			&e.Sport,
			&e.Description,
			&e.StartAt,
			&e.EndAt,
			&e.TeamSize,
			&e.CapacityTeams,
			&e.CreatedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan occupying event: %w", err)
		}
		occupying = append(occupying, &ce)
		if !seen[e.ID] {
			seen[e.ID] = true
			eventIDs = append(eventIDs, e.ID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occupying events: %w", err)
	}

	windows, err := r.findWindows(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	for _, ce := range occupying {
		ce.Windows = windows[ce.Event.ID]
	}

	return occupying, nil
}

func (r *eventRepository) FindWindows(ctx context.Context, eventID uuid.UUID) ([]entity.EventWindow, error) {
	windows, err := r.findWindows(ctx, []uuid.UUID{eventID})
	if err != nil {
		return nil, err
	}
	return windows[eventID], nil
}

func (r *eventRepository) findWindows(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]entity.EventWindow, error) {
	result := make(map[uuid.UUID][]entity.EventWindow, len(eventIDs))
	if len(eventIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, event_id, start_at, end_at
		FROM event_windows
		WHERE event_id = ANY($1)
		ORDER BY start_at ASC
	`, eventIDs)
	if err != nil {
		r.log.Error("Failed to find event windows", zap.Error(err))
		return nil, fmt.Errorf("find event windows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w entity.EventWindow
		if err := rows.Scan(&w.ID, &w.EventID, &w.StartAt, &w.EndAt); err != nil {
			return nil, fmt.Errorf("scan event window: %w", err)
		}
		result[w.EventID] = append(result[w.EventID], w)
	}

	return result, rows.Err()
}

func (r *eventRepository) AddRSVP(ctx context.Context, rsvp *entity.EventRSVP) error {
	query := `
		INSERT INTO event_rsvps (id, event_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, rsvp.ID, rsvp.EventID, rsvp.UserID, rsvp.CreatedAt)
	if IsDuplicate(err) {
		return fmt.Errorf("rsvp to event %s: %w", rsvp.EventID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to add RSVP",
			zap.Error(err),
			zap.String("event_id", rsvp.EventID.String()),
			zap.String("user_id", rsvp.UserID.String()),
		)
		return fmt.Errorf("rsvp to event %s: %w", rsvp.EventID.String(), err)
	}

	return nil
}

func (r *eventRepository) RemoveRSVP(ctx context.Context, eventID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM event_rsvps WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		r.log.Error("Failed to remove RSVP",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("remove rsvp from event %s: %w", eventID.String(), err)
	}

	return nil
}

func (r *eventRepository) CountRSVPs(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM event_rsvps WHERE event_id = $1`, eventID).Scan(&count); err != nil {
		r.log.Error("Failed to count RSVPs", zap.Error(err), zap.String("event_id", eventID.String()))
		return 0, fmt.Errorf("count rsvps for event %s: %w", eventID.String(), err)
	}
	return count, nil
}

func (r *eventRepository) HasRSVP(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_rsvps WHERE event_id = $1 AND user_id = $2)`
	if err := r.db.QueryRow(ctx, query, eventID, userID).Scan(&exists); err != nil {
		r.log.Error("Failed to check RSVP", zap.Error(err), zap.String("event_id", eventID.String()))
		return false, fmt.Errorf("check rsvp for event %s: %w", eventID.String(), err)
	}
	return exists, nil
}

func (r *eventRepository) FindJoinedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM event_rsvps er
		JOIN events e ON e.id = er.event_id
		WHERE er.user_id = $1
		ORDER BY e.start_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find joined events", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find joined events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var e entity.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &e)
	}

	return events, rows.Err()
}
