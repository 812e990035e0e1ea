package domain

import (
	"github.com/allisson/secretgate/internal/errors"
)

var (
	// ErrSignatureInvalid indicates an entry was modified after it was signed.
	ErrSignatureInvalid = errors.New("audit log signature invalid")

	// ErrInvalidTimeRange indicates created_at_from is after created_at_to.
	ErrInvalidTimeRange = errors.Wrap(errors.ErrInvalidInput, "created_at_from must be before or equal to created_at_to")
)
