// Package usecase implements business logic orchestration for secret management.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
	cryptoService "github.com/allisson/secretgate/internal/crypto/service"
	apperrors "github.com/allisson/secretgate/internal/errors"
	secretsDomain "github.com/allisson/secretgate/internal/secrets/domain"
)

// secretUseCase implements the SecretUseCase interface for managing secrets.
type secretUseCase struct {
	secretRepo        SecretRepository
	cipher            cryptoService.CipherEngine
	storeTimeout      time.Duration
	rewrapConcurrency int
}

// Create encrypts the value and stores it under a new UUIDv7.
func (s *secretUseCase) Create(
	ctx context.Context,
	input *secretsDomain.SecretInput,
) (*secretsDomain.Secret, error) {
	return s.Put(ctx, uuid.Must(uuid.NewV7()).String(), input)
}

// Put encrypts the value, upserts it under id and returns the stored record.
// Last writer wins.
func (s *secretUseCase) Put(
	ctx context.Context,
	id string,
	input *secretsDomain.SecretInput,
) (*secretsDomain.Secret, error) {
	if strings.TrimSpace(id) == "" {
		return nil, secretsDomain.ErrMissingParameter
	}

	encoded, err := s.cipher.Encrypt(input.Value)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	secret := &secretsDomain.Secret{
		ID:        id,
		Name:      input.Name,
		Value:     encoded,
		VisibleTo: input.VisibleTo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The store keeps created_at on overwrite, so the stored row is returned.
	var stored *secretsDomain.Secret
	err = s.withStoreTimeout(ctx, func(ctx context.Context) error {
		if err := s.secretRepo.Upsert(ctx, secret); err != nil {
			return err
		}
		got, err := s.secretRepo.GetByID(ctx, id)
		stored = got
		return err
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// Retrieve looks the record up and decrypts it.
//
// Every cipher engine failure, malformed stored values included, is reported
// as ErrDecryptionFailed: a stored value that does not parse is corrupt data,
// not bad caller input.
func (s *secretUseCase) Retrieve(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	if strings.TrimSpace(id) == "" {
		return nil, secretsDomain.ErrMissingParameter
	}

	var secret *secretsDomain.Secret
	err := s.withStoreTimeout(ctx, func(ctx context.Context) error {
		var err error
		secret, err = s.secretRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	plaintext, err := s.cipher.Decrypt(secret.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: secret %s", cryptoDomain.ErrDecryptionFailed, id)
	}

	secret.Plaintext = plaintext
	return secret, nil
}

// List returns every secret to privileged principals and the visible subset to everyone else.
func (s *secretUseCase) List(
	ctx context.Context,
	principal string,
	privileged bool,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	var secrets []*secretsDomain.Secret
	err := s.withStoreTimeout(ctx, func(ctx context.Context) error {
		var err error
		if privileged {
			secrets, err = s.secretRepo.List(ctx, offset, limit)
		} else {
			secrets, err = s.secretRepo.ListVisibleTo(ctx, principal, offset, limit)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return secrets, nil
}

// Delete removes a secret by id.
func (s *secretUseCase) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return secretsDomain.ErrMissingParameter
	}
	return s.withStoreTimeout(ctx, func(ctx context.Context) error {
		return s.secretRepo.Delete(ctx, id)
	})
}

// Rewrap processes one page of records. A record already readable with the
// active key is skipped, so running the pass twice is harmless. A record
// readable with neither key is left untouched and reported as failed.
func (s *secretUseCase) Rewrap(
	ctx context.Context,
	previous cryptoService.CipherEngine,
	offset, limit int,
) (*secretsDomain.RewrapResult, error) {
	secrets, err := s.List(ctx, "", true, offset, limit)
	if err != nil {
		return nil, err
	}

	result := &secretsDomain.RewrapResult{Scanned: len(secrets)}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.rewrapConcurrency)

	for _, secret := range secrets {
		g.Go(func() error {
			outcome, err := s.rewrapOne(gCtx, previous, secret)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case rewrapSkipped:
				result.Skipped++
			case rewrapDone:
				result.Rewrapped++
			case rewrapFailed:
				result.Failed++
				result.FailedIDs = append(result.FailedIDs, secret.ID)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

type rewrapOutcome int

const (
	rewrapSkipped rewrapOutcome = iota
	rewrapDone
	rewrapFailed
)

func (s *secretUseCase) rewrapOne(
	ctx context.Context,
	previous cryptoService.CipherEngine,
	secret *secretsDomain.Secret,
) (rewrapOutcome, error) {
	if plaintext, err := s.cipher.Decrypt(secret.Value); err == nil {
		cryptoDomain.Zero(plaintext)
		return rewrapSkipped, nil
	}

	if previous == nil {
		return rewrapFailed, nil
	}
	plaintext, err := previous.Decrypt(secret.Value)
	if err != nil {
		return rewrapFailed, nil
	}
	defer cryptoDomain.Zero(plaintext)

	encoded, err := s.cipher.Encrypt(plaintext)
	if err != nil {
		return rewrapFailed, err
	}

	updated := *secret
	updated.Value = encoded
	updated.UpdatedAt = time.Now().UTC()

	err = s.withStoreTimeout(ctx, func(ctx context.Context) error {
		return s.secretRepo.Upsert(ctx, &updated)
	})
	if err != nil {
		return rewrapFailed, err
	}
	return rewrapDone, nil
}

// withStoreTimeout bounds a record store call and reports an expired
// deadline as ErrTimeout.
func (s *secretUseCase) withStoreTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.storeTimeout <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: record store did not answer within %s: %v", apperrors.ErrTimeout, s.storeTimeout, err)
	}
	return err
}

// NewSecretUseCase creates a new secret use case instance with the provided dependencies.
func NewSecretUseCase(
	secretRepo SecretRepository,
	cipher cryptoService.CipherEngine,
	storeTimeout time.Duration,
	rewrapConcurrency int,
) SecretUseCase {
	if rewrapConcurrency < 1 {
		rewrapConcurrency = 1
	}
	return &secretUseCase{
		secretRepo:        secretRepo,
		cipher:            cipher,
		storeTimeout:      storeTimeout,
		rewrapConcurrency: rewrapConcurrency,
	}
}
