package usecase

import (
	"context"
	"time"

	cryptoService "github.com/allisson/secretgate/internal/crypto/service"
	"github.com/allisson/secretgate/internal/metrics"
	secretsDomain "github.com/allisson/secretgate/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	s.metrics.Observe(ctx, "secrets", operation, time.Since(start), err)
}

func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	input *secretsDomain.SecretInput,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) Put(
	ctx context.Context,
	id string,
	input *secretsDomain.SecretInput,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Put(ctx, id, input)
	s.record(ctx, "secret_put", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) Retrieve(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Retrieve(ctx, id)
	s.record(ctx, "secret_retrieve", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) List(
	ctx context.Context,
	principal string,
	privileged bool,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.List(ctx, principal, privileged, offset, limit)
	s.record(ctx, "secret_list", start, err)
	return secrets, err
}

func (s *secretUseCaseWithMetrics) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.record(ctx, "secret_delete", start, err)
	return err
}

func (s *secretUseCaseWithMetrics) Rewrap(
	ctx context.Context,
	previous cryptoService.CipherEngine,
	offset, limit int,
) (*secretsDomain.RewrapResult, error) {
	start := time.Now()
	result, err := s.next.Rewrap(ctx, previous, offset, limit)
	s.record(ctx, "secret_rewrap", start, err)
	return result, err
}
