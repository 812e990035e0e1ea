package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/secretgate/internal/errors"
)

func TestErrors(t *testing.T) {
	assert.ErrorIs(t, ErrAdminNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, ErrAdminAlreadyExists, apperrors.ErrConflict)
	assert.ErrorIs(t, ErrMissingPrincipal, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, ErrNotPrivileged, apperrors.ErrForbidden)
}
