// Package domain defines core domain models and errors for secrets.
package domain

import (
	"github.com/allisson/secretgate/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no record exists for the requested identifier.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrMissingParameter indicates the secret identifier is absent or blank.
	ErrMissingParameter = errors.Wrap(errors.ErrInvalidInput, "missing secretId parameter")
)
