package usecase

import (
	"errors"
	"fmt"

	"court-booking/internal/data/repository"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
)

// Error kinds returned by services. Handlers branch on them with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// validate runs struct validation and wraps failures in ErrValidation.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func parseID(kind, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, invalidf("invalid %s ID format %q", kind, value)
	}
	return id, nil
}

// asConflict maps persistence-level overlap and duplicate errors to ErrConflict.
func asConflict(err error, what string) error {
	if repository.IsOverlap(err) || repository.IsDuplicate(err) {
		return fmt.Errorf("%s: %w", what, ErrConflict)
	}
	return nil
}
