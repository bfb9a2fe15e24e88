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

type InviteRepository interface {
	// CreateBatch inserts invites, skipping invitees already invited to the
	// same booking. It returns how many rows were inserted.
	CreateBatch(ctx context.Context, invites []*entity.BookingInvite) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingInvite, error)
	FindPendingByInvitee(ctx context.Context, inviteeID uuid.UUID) ([]*entity.InviteDetail, error)
	// UpdateStatus moves an invite from one status to another. It returns
	// ErrStale when the invite is no longer in status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.InviteStatus) error
}

type inviteRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewInviteRepository(db database.Querier, log *zap.Logger) InviteRepository {
	return &inviteRepository{
		db:  db,
		log: log.With(zap.String("repository", "invite")),
	}
}

func (r *inviteRepository) CreateBatch(ctx context.Context, invites []*entity.BookingInvite) (int, error) {
	query := `
		INSERT INTO booking_invites (id, booking_id, inviter_id, invitee_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (booking_id, invitee_id) DO NOTHING
	`

	inserted := 0
	for _, inv := range invites {
		result, err := r.db.Exec(ctx, query,
			inv.ID,
			inv.BookingID,
			inv.InviterID,
			inv.InviteeID,
			inv.Status,
			inv.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create invite",
				zap.Error(err),
				zap.String("booking_id", inv.BookingID.String()),
				zap.String("invitee_id", inv.InviteeID.String()),
			)
			return inserted, fmt.Errorf("create invite for booking %s: %w", inv.BookingID.String(), err)
		}
		inserted += int(result.RowsAffected())
	}

	return inserted, nil
}

func (r *inviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingInvite, error) {
	query := `
		SELECT id, booking_id, inviter_id, invitee_id, status, created_at
		FROM booking_invites
		WHERE id = $1
	`

	var inv entity.BookingInvite
	err := r.db.QueryRow(ctx, query, id).Scan(
		&inv.ID,
		&inv.BookingID,
		&inv.InviterID,
		&inv.InviteeID,
		&inv.Status,
		&inv.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find invite by ID", zap.Error(err), zap.String("invite_id", id.String()))
		return nil, fmt.Errorf("find invite by ID %s: %w", id.String(), err)
	}

	return &inv, nil
}

func (r *inviteRepository) FindPendingByInvitee(ctx context.Context, inviteeID uuid.UUID) ([]*entity.InviteDetail, error) {
	query := `
		SELECT i.id, i.booking_id, i.inviter_id, i.invitee_id, i.status, i.created_at,
		       b.id, b.court_id, b.user_id, b.start_at, b.end_at, b.price_eur, b.applied_offer_id, b.created_at,
		       c.id, c.name, c.sport, c.address, c.city, c.description, c.image_url, c.price_per_hour,
		       c.created_at, c.updated_at
		FROM booking_invites i
		JOIN bookings b ON b.id = i.booking_id
		JOIN courts c ON c.id = b.court_id
		WHERE i.invitee_id = $1 AND i.status = 'pending'
		ORDER BY i.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, inviteeID)
	if err != nil {
		r.log.Error("Failed to find pending invites", zap.Error(err), zap.String("invitee_id", inviteeID.String()))
		return nil, fmt.Errorf("find pending invites: %w", err)
	}
	defer rows.Close()

	var invites []*entity.InviteDetail
	for rows.Next() {
		var d entity.InviteDetail
		if err := rows.Scan(
			&d.ID,
			&d.BookingID,
			&d.InviterID,
			&d.InviteeID,
			&d.Status,
			&d.CreatedAt,
			&d.Booking.ID,
			&d.Booking.CourtID,
			&d.Booking.UserID,
			&d.Booking.StartAt,
			&d.Booking.EndAt,
			&d.Booking.PriceEUR,
			&d.Booking.AppliedOfferID,
			&d.Booking.CreatedAt,
			&d.Court.ID,
			&d.Court.Name,
			&d.Court.Sport,
			&d.Court.Address,
			&d.Court.City,
			&d.Court.Description,
			&d.Court.ImageURL,
			&d.Court.PricePerHour,
			&d.Court.CreatedAt,
			&d.Court.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		invites = append(invites, &d)
	}

	return invites, rows.Err()
}

func (r *inviteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.InviteStatus) error {
	query := `
		UPDATE booking_invites
		SET status = $3
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update invite status",
			zap.Error(err),
			zap.String("invite_id", id.String()),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("update invite %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("invite %s is no longer %s: %w", id.String(), from, ErrStale)
	}

	return nil
}
