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

type OfferSort string

const (
	OfferSortEndsSoon OfferSort = "endsSoon"
	OfferSortDiscount OfferSort = "discount"
	OfferSortPrice    OfferSort = "price"
)

var offerOrderBy = map[OfferSort]string{
	OfferSortEndsSoon: `o.ends_at ASC, o.id ASC`,
	OfferSortDiscount: `o.discount_pct DESC NULLS LAST, o.ends_at ASC, o.id ASC`,
	OfferSortPrice:    `COALESCE(o.price, c.price_per_hour * (100 - COALESCE(o.discount_pct, 0)) / 100) ASC, o.id ASC`,
}

// OfferFilter narrows the search over offers active at Now.
type OfferFilter struct {
	Now    time.Time
	Sport  string
	City   string
	Query  string
	Sort   OfferSort
	Limit  int
	Offset int
}

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error)

	// FindForCourts returns offers on courtIDs whose validity intersects [start, end).
	FindForCourts(ctx context.Context, courtIDs []uuid.UUID, start, end time.Time) ([]*entity.Offer, error)
	Search(ctx context.Context, filter OfferFilter) ([]*entity.OfferWithCourt, int64, error)
}

type offerRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewOfferRepository(db database.Querier, log *zap.Logger) OfferRepository {
	return &offerRepository{
		db:  db,
		log: log.With(zap.String("repository", "offer")),
	}
}

const offerColumns = `o.id, o.court_id, o.title, o.description, o.discount_pct, o.price, o.original_price,
	o.starts_at, o.ends_at, o.valid_hour_start, o.valid_hour_end, o.featured, o.created_at`

func offerFields(o *entity.Offer) []any {
	return []any{
		&o.ID,
		&o.CourtID,
		&o.Title,
		&o.Description,
		&o.DiscountPct,
		&o.Price,
		&o.OriginalPrice,
		&o.StartsAt,
		&o.EndsAt,
		&o.ValidHourStart,
		&o.ValidHourEnd,
		&o.Featured,
		&o.CreatedAt,
	}
}

func (r *offerRepository) Create(ctx context.Context, offer *entity.Offer) error {
	query := `
		INSERT INTO offers (id, court_id, title, description, discount_pct, price, original_price,
		                    starts_at, ends_at, valid_hour_start, valid_hour_end, featured, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		offer.ID,
		offer.CourtID,
		offer.Title,
		offer.Description,
		offer.DiscountPct,
		offer.Price,
		offer.OriginalPrice,
		offer.StartsAt,
		offer.EndsAt,
		offer.ValidHourStart,
		offer.ValidHourEnd,
		offer.Featured,
		offer.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create offer",
			zap.Error(err),
			zap.String("court_id", offer.CourtID.String()),
			zap.String("title", offer.Title),
		)
		return fmt.Errorf("create offer %s: %w", offer.Title, err)
	}

	return nil
}

func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete offer", zap.Error(err), zap.String("offer_id", id.String()))
		return fmt.Errorf("delete offer %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("offer %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers o WHERE o.id = $1`

	var offer entity.Offer
	err := r.db.QueryRow(ctx, query, id).Scan(offerFields(&offer)...)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find offer by ID", zap.Error(err), zap.String("offer_id", id.String()))
		return nil, fmt.Errorf("find offer by ID %s: %w", id.String(), err)
	}

	return &offer, nil
}

func (r *offerRepository) FindForCourts(ctx context.Context, courtIDs []uuid.UUID, start, end time.Time) ([]*entity.Offer, error) {
	if len(courtIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + offerColumns + `
		FROM offers o
		WHERE o.court_id = ANY($1)
		  AND o.starts_at < $3
		  AND o.ends_at > $2
		ORDER BY o.id ASC
	`

	rows, err := r.db.Query(ctx, query, courtIDs, start, end)
	if err != nil {
		r.log.Error("Failed to find offers for courts", zap.Error(err), zap.Int("courts", len(courtIDs)))
		return nil, fmt.Errorf("find offers for courts: %w", err)
	}
	defer rows.Close()

	var offers []*entity.Offer
	for rows.Next() {
		var o entity.Offer
		if err := rows.Scan(offerFields(&o)...); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, &o)
	}

	return offers, rows.Err()
}

func (r *offerRepository) Search(ctx context.Context, filter OfferFilter) ([]*entity.OfferWithCourt, int64, error) {
	orderBy, ok := offerOrderBy[filter.Sort]
	if !ok {
		orderBy = offerOrderBy[OfferSortEndsSoon]
	}

	from := `
		FROM offers o
		JOIN courts c ON c.id = o.court_id
		WHERE o.starts_at <= $1 AND o.ends_at > $1
		  AND ($2 = '' OR c.sport = $2)
		  AND ($3 = '' OR c.city ILIKE '%' || $3 || '%')
		  AND ($4 = '' OR o.title ILIKE '%' || $4 || '%' OR c.name ILIKE '%' || $4 || '%')
	`
	args := []any{filter.Now, filter.Sport, filter.City, filter.Query}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count offers", zap.Error(err))
		return nil, 0, fmt.Errorf("count offers: %w", err)
	}

	query := `
		SELECT ` + offerColumns + `,
		       c.id, c.name, c.sport, c.address, c.city, c.description, c.image_url, c.price_per_hour,
		       c.created_at, c.updated_at
	` + from + `
		ORDER BY ` + orderBy + `
		LIMIT $5 OFFSET $6
	`

	rows, err := r.db.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		r.log.Error("Failed to search offers",
			zap.Error(err),
			zap.String("sport", filter.Sport),
			zap.String("sort", string(filter.Sort)),
		)
		return nil, 0, fmt.Errorf("search offers: %w", err)
	}
	defer rows.Close()

	var offers []*entity.OfferWithCourt
	for rows.Next() {
		var o entity.OfferWithCourt
		dest := append(offerFields(&o.Offer),
			&o.Court.ID,
			&o.Court.Name,
			&o.Court.Sport,
			&o.Court.Address,
			&o.Court.City,
			&o.Court.Description,
			&o.Court.ImageURL,
			&o.Court.PricePerHour,
			&o.Court.CreatedAt,
			&o.Court.UpdatedAt,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, &o)
	}

	return offers, total, rows.Err()
}
