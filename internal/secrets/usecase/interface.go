// Package usecase defines the interfaces and implementations for secret management use cases.
// Use cases orchestrate the record store and the cipher engine; neither of them knows
// about the other.
package usecase

import (
	"context"

	cryptoService "github.com/allisson/secretgate/internal/crypto/service"
	secretsDomain "github.com/allisson/secretgate/internal/secrets/domain"
)

// SecretRepository defines the record store operations for secrets.
type SecretRepository interface {
	// GetByID returns ErrSecretNotFound when no record has id.
	GetByID(ctx context.Context, id string) (*secretsDomain.Secret, error)
	// Upsert replaces the record with the same ID. CreatedAt of an existing record is kept.
	Upsert(ctx context.Context, secret *secretsDomain.Secret) error
	List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error)
	ListVisibleTo(ctx context.Context, principal string, offset, limit int) ([]*secretsDomain.Secret, error)
	// Delete returns ErrSecretNotFound when nothing was deleted.
	Delete(ctx context.Context, id string) error
}

// SecretUseCase defines the interface for secret management business logic.
type SecretUseCase interface {
	// Create stores a new secret under a generated UUIDv7 identifier.
	Create(ctx context.Context, input *secretsDomain.SecretInput) (*secretsDomain.Secret, error)
	// Put stores a secret under a caller chosen identifier, replacing any existing one.
	Put(ctx context.Context, id string, input *secretsDomain.SecretInput) (*secretsDomain.Secret, error)
	// Retrieve loads and decrypts a secret.
	//
	// Security Note: The returned Secret contains plaintext data in the Plaintext field.
	// Callers MUST zero this data after use by calling cryptoDomain.Zero(secret.Plaintext).
	Retrieve(ctx context.Context, id string) (*secretsDomain.Secret, error)
	// List returns secrets without plaintext. Non privileged principals only see
	// entries that list them in VisibleTo.
	List(
		ctx context.Context,
		principal string,
		privileged bool,
		offset, limit int,
	) ([]*secretsDomain.Secret, error)
	Delete(ctx context.Context, id string) error
	// Rewrap re-encrypts one page of records that are still under the previous key.
	Rewrap(
		ctx context.Context,
		previous cryptoService.CipherEngine,
		offset, limit int,
	) (*secretsDomain.RewrapResult, error)
}
