package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrOverlap means the row would overlap an existing booking on the
	// same court.
	ErrOverlap = errors.New("interval overlaps an existing booking")
	// ErrSerialization means a serializable transaction kept losing to
	// concurrent writers and ran out of retries. The caller may retry.
	ErrSerialization = errors.New("transaction aborted by concurrent writers")
	// ErrDuplicate means a unique constraint rejected the row.
	ErrDuplicate = errors.New("duplicate row")
	// ErrStale means a conditional update found the row in another state.
	ErrStale = errors.New("row changed concurrently")
	// ErrNotFound means an update or delete matched no row.
	ErrNotFound = errors.New("row not found")
)

const (
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsOverlap reports whether err is an exclusion violation on the bookings
// table. A serialization failure is not an overlap: it is retried by the
// transactor and says nothing about the interval itself.
func IsOverlap(err error) bool {
	return errors.Is(err, ErrOverlap) || pgCode(err) == pgExclusionViolation
}

func IsSerializationFailure(err error) bool {
	return pgCode(err) == pgSerializationFailure
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate) || pgCode(err) == pgUniqueViolation
}
