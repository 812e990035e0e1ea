package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/secretgate/internal/errors"
)

func TestSecret_IsVisibleTo(t *testing.T) {
	secret := &Secret{
		ID:        "db-password",
		VisibleTo: []string{"alice@example.com", "bob@example.com"},
	}

	assert.True(t, secret.IsVisibleTo("alice@example.com"))
	assert.True(t, secret.IsVisibleTo("bob@example.com"))
	assert.False(t, secret.IsVisibleTo("eve@example.com"))
	assert.False(t, secret.IsVisibleTo(""))
	assert.False(t, (&Secret{}).IsVisibleTo("alice@example.com"))
}

func TestErrors(t *testing.T) {
	assert.ErrorIs(t, ErrSecretNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, ErrMissingParameter, apperrors.ErrInvalidInput)
}
