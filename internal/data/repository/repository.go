package repository

import (
	"context"
	"fmt"
	"time"

	"court-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	Court        CourtRepository
	Booking      BookingRepository
	Event        EventRepository
	Offer        OfferRepository
	Invite       InviteRepository
	Notification NotificationRepository

	// Tx runs a unit of work against repositories bound to one transaction.
	Tx Transactor
	// Health pings the datastore.
	Health func(ctx context.Context) error
}

// Transactor runs fn with repositories bound to a serializable transaction.
// fn may run more than once when the transaction loses a serialization race,
// so it must not have side effects outside tx.
type Transactor interface {
	WithinSerializable(ctx context.Context, fn func(tx *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositories(db, log)
	repo.Tx = &pgTransactor{db: db, log: log}
	repo.Health = db.Ping
	return repo
}

func newRepositories(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Court:        NewCourtRepository(q, log),
		Booking:      NewBookingRepository(q, log),
		Event:        NewEventRepository(q, log),
		Offer:        NewOfferRepository(q, log),
		Invite:       NewInviteRepository(q, log),
		Notification: NewNotificationRepository(q, log),
	}
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgTransactor) WithinSerializable(ctx context.Context, fn func(tx *Repository) error) error {
	return RetrySerializable(ctx, t.log, func() error {
		return database.InTx(ctx, t.db, pgx.Serializable, func(q database.Querier) error {
			return fn(newRepositories(q, t.log))
		})
	})
}

const (
	serializableAttempts = 3
	serializableBackoff  = 10 * time.Millisecond
)

// RetrySerializable runs attempt until it stops failing with a serialization
// failure, up to serializableAttempts times. When every attempt loses the
// race the error wraps ErrSerialization.
func RetrySerializable(ctx context.Context, log *zap.Logger, attempt func() error) error {
	var err error
	for i := 1; i <= serializableAttempts; i++ {
		if err = attempt(); err == nil || !IsSerializationFailure(err) {
			return err
		}
		log.Warn("Serializable transaction aborted",
			zap.Error(err),
			zap.Int("attempt", i),
		)
		if i == serializableAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrSerialization, ctx.Err())
		case <-time.After(time.Duration(i) * serializableBackoff):
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrSerialization, serializableAttempts, err)
}
