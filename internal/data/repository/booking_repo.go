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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// FindOverlapping returns bookings on any of courtIDs that intersect [start, end).
	FindOverlapping(ctx context.Context, courtIDs []uuid.UUID, start, end time.Time) ([]*entity.Booking, error)
	// FindUpcomingByUser returns bookings owned by userID ending after from.
	FindUpcomingByUser(ctx context.Context, userID uuid.UUID, from time.Time) ([]*entity.BookingWithCourt, error)
	// FindUpcomingByGuest returns bookings userID accepted an invite to, ending after from.
	FindUpcomingByGuest(ctx context.Context, userID uuid.UUID, from time.Time) ([]*entity.BookingWithCourt, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, court_id, user_id, start_at, end_at, price_eur, applied_offer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CourtID,
		booking.UserID,
		booking.StartAt,
		booking.EndAt,
		booking.PriceEUR,
		booking.AppliedOfferID,
		booking.CreatedAt,
	)
	if IsOverlap(err) {
		r.log.Warn("Booking rejected by overlap constraint",
			zap.String("court_id", booking.CourtID.String()),
			zap.Time("start_at", booking.StartAt),
			zap.Time("end_at", booking.EndAt),
		)
		return fmt.Errorf("create booking on court %s: %w", booking.CourtID.String(), ErrOverlap)
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("court_id", booking.CourtID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking on court %s: %w", booking.CourtID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, court_id, user_id, start_at, end_at, price_eur, applied_offer_id, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.CourtID,
		&booking.UserID,
		&booking.StartAt,
		&booking.EndAt,
		&booking.PriceEUR,
		&booking.AppliedOfferID,
		&booking.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, courtIDs []uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
	if len(courtIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, court_id, user_id, start_at, end_at, price_eur, applied_offer_id, created_at
		FROM bookings
		WHERE court_id = ANY($1)
		  AND start_at < $3
		  AND end_at > $2
		ORDER BY start_at ASC
	`

	rows, err := r.db.Query(ctx, query, courtIDs, start, end)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.Int("courts", len(courtIDs)),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var b entity.Booking
		if err := rows.Scan(
			&b.ID,
			&b.CourtID,
			&b.UserID,
			&b.StartAt,
			&b.EndAt,
			&b.PriceEUR,
			&b.AppliedOfferID,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

const bookingWithCourtColumns = `
	SELECT b.id, b.court_id, b.user_id, b.start_at, b.end_at, b.price_eur, b.applied_offer_id, b.created_at,
	       c.id, c.name, c.sport, c.address, c.city, c.description, c.image_url, c.price_per_hour,
	       c.created_at, c.updated_at`

const bookingWithCourtFrom = `
	FROM bookings b
	JOIN courts c ON c.id = b.court_id
`

func (r *bookingRepository) FindUpcomingByUser(ctx context.Context, userID uuid.UUID, from time.Time) ([]*entity.BookingWithCourt, error) {
	query := bookingWithCourtColumns + bookingWithCourtFrom + `
		WHERE b.user_id = $1 AND b.end_at > $2
		ORDER BY b.start_at ASC
	`
	return r.queryWithCourt(ctx, "owned", query, false, userID, from)
}

func (r *bookingRepository) FindUpcomingByGuest(ctx context.Context, userID uuid.UUID, from time.Time) ([]*entity.BookingWithCourt, error) {
	// The invite id goes last so queryWithCourt can scan it for guests only.
	query := bookingWithCourtColumns + ", i.id" + bookingWithCourtFrom + `
		JOIN booking_invites i ON i.booking_id = b.id
		WHERE i.invitee_id = $1 AND i.status = 'accepted' AND b.end_at > $2
		ORDER BY b.start_at ASC
	`
	return r.queryWithCourt(ctx, "guest", query, true, userID, from)
}

func (r *bookingRepository) queryWithCourt(ctx context.Context, kind, query string, guest bool, args ...any) ([]*entity.BookingWithCourt, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err), zap.String("kind", kind))
		return nil, fmt.Errorf("list %s bookings: %w", kind, err)
	}
	defer rows.Close()

	var bookings []*entity.BookingWithCourt
	for rows.Next() {
		b := entity.BookingWithCourt{Guest: guest}
		dest := []any{
			&b.ID,
			&b.CourtID,
			&b.UserID,
			&b.StartAt,
			&b.EndAt,
			&b.PriceEUR,
			&b.AppliedOfferID,
			&b.CreatedAt,
			&b.Court.ID,
			&b.Court.Name,
			&b.Court.Sport,
			&b.Court.Address,
			&b.Court.City,
			&b.Court.Description,
			&b.Court.ImageURL,
			&b.Court.PricePerHour,
			&b.Court.CreatedAt,
			&b.Court.UpdatedAt,
		}
		if guest {
			dest = append(dest, &b.InviteID)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s booking: %w", kind, err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}
