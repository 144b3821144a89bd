package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds surfaced by the service layer. Controllers map these onto
// HTTP statuses; everything else is treated as an internal failure.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid input")
)

// translate maps datastore errors onto the service error kinds so that
// callers never need to depend on gorm's sentinel errors.
func translate(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
