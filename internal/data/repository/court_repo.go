package repository

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CourtFilter narrows court search. Empty fields match everything.
type CourtFilter struct {
	Sport string
	City  string
	Query string
}

type CourtRepository interface {
	Create(ctx context.Context, court *entity.Court) error
	Update(ctx context.Context, court *entity.Court) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error)
	Search(ctx context.Context, filter CourtFilter) ([]*entity.Court, error)

	// FindByEventIDs returns the courts of each event, ordered by name.
	FindByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]*entity.Court, error)
}

type courtRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCourtRepository(db database.Querier, log *zap.Logger) CourtRepository {
	return &courtRepository{
		db:  db,
		log: log.With(zap.String("repository", "court")),
	}
}

const courtColumns = `id, name, sport, address, city, description, image_url, price_per_hour, created_at, updated_at`

func scanCourt(row pgx.Row, c *entity.Court) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.Sport,
		&c.Address,
		&c.City,
		&c.Description,
		&c.ImageURL,
		&c.PricePerHour,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *courtRepository) Create(ctx context.Context, court *entity.Court) error {
	query := `
		INSERT INTO courts (` + courtColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		court.ID,
		court.Name,
		court.Sport,
		court.Address,
		court.City,
		court.Description,
		court.ImageURL,
		court.PricePerHour,
		court.CreatedAt,
		court.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create court",
			zap.Error(err),
			zap.String("name", court.Name),
		)
		return fmt.Errorf("create court %s: %w", court.Name, err)
	}

	return nil
}

func (r *courtRepository) Update(ctx context.Context, court *entity.Court) error {
	query := `
		UPDATE courts
		SET name = $2, sport = $3, address = $4, city = $5, description = $6,
		    image_url = $7, price_per_hour = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		court.ID,
		court.Name,
		court.Sport,
		court.Address,
		court.City,
		court.Description,
		court.ImageURL,
		court.PricePerHour,
		court.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update court",
			zap.Error(err),
			zap.String("court_id", court.ID.String()),
		)
		return fmt.Errorf("update court %s: %w", court.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court %s: %w", court.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *courtRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts WHERE id = $1`

	var court entity.Court
	err := scanCourt(r.db.QueryRow(ctx, query, id), &court)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find court by ID",
			zap.Error(err),
			zap.String("court_id", id.String()),
		)
		return nil, fmt.Errorf("find court by ID %s: %w", id.String(), err)
	}

	return &court, nil
}

func (r *courtRepository) Search(ctx context.Context, filter CourtFilter) ([]*entity.Court, error) {
	query := `
		SELECT ` + courtColumns + `
		FROM courts
		WHERE ($1 = '' OR sport = $1)
		  AND ($2 = '' OR city ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR address ILIKE '%' || $3 || '%')
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query, filter.Sport, filter.City, filter.Query)
	if err != nil {
		r.log.Error("Failed to search courts",
			zap.Error(err),
			zap.String("sport", filter.Sport),
			zap.String("city", filter.City),
		)
		return nil, fmt.Errorf("search courts: %w", err)
	}
	defer rows.Close()

	var courts []*entity.Court
	for rows.Next() {
		var court entity.Court
		if err := scanCourt(rows, &court); err != nil {
			return nil, fmt.Errorf("scan court: %w", err)
		}
		courts = append(courts, &court)
	}

	return courts, rows.Err()
}

func (r *courtRepository) FindByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]*entity.Court, error) {
	result := make(map[uuid.UUID][]*entity.Court, len(eventIDs))
	if len(eventIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ec.event_id, c.id, c.name, c.sport, c.address, c.city, c.description,
		       c.image_url, c.price_per_hour, c.created_at, c.updated_at
		FROM event_courts ec
		JOIN courts c ON c.id = ec.court_id
		WHERE ec.event_id = ANY($1)
		ORDER BY c.name ASC
	`

	rows, err := r.db.Query(ctx, query, eventIDs)
	if err != nil {
		r.log.Error("Failed to find courts by events", zap.Error(err), zap.Int("events", len(eventIDs)))
		return nil, fmt.Errorf("find courts by events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID uuid.UUID
		var c entity.Court
		if err := rows.Scan(
			&eventID,
			&c.ID,
			&c.Name,
			&c.Sport,
			&c.Address,
			&c.City,
			&c.Description,
			&c.ImageURL,
			&c.PricePerHour,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event court: %w", err)
		}
		result[eventID] = append(result[eventID], &c)
	}

	return result, rows.Err()
}
