// Package mocks provides mock implementations of the secret use case dependencies for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoService "github.com/allisson/secretgate/internal/crypto/service"
	secretsDomain "github.com/allisson/secretgate/internal/secrets/domain"
)

// MockSecretRepository is a mock implementation of SecretRepository for testing.
type MockSecretRepository struct {
	mock.Mock
}

// GetByID mocks the GetByID method of SecretRepository.
func (m *MockSecretRepository) GetByID(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// Upsert mocks the Upsert method of SecretRepository.
func (m *MockSecretRepository) Upsert(ctx context.Context, secret *secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// List mocks the List method of SecretRepository.
func (m *MockSecretRepository) List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

// ListVisibleTo mocks the ListVisibleTo method of SecretRepository.
func (m *MockSecretRepository) ListVisibleTo(
	ctx context.Context,
	principal string,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, principal, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

// Delete mocks the Delete method of SecretRepository.
func (m *MockSecretRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSecretUseCase is a mock implementation of SecretUseCase for testing.
type MockSecretUseCase struct {
	mock.Mock
}

// Create mocks the Create method of SecretUseCase.
func (m *MockSecretUseCase) Create(
	ctx context.Context,
	input *secretsDomain.SecretInput,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// Put mocks the Put method of SecretUseCase.
func (m *MockSecretUseCase) Put(
	ctx context.Context,
	id string,
	input *secretsDomain.SecretInput,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// Retrieve mocks the Retrieve method of SecretUseCase.
func (m *MockSecretUseCase) Retrieve(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// List mocks the List method of SecretUseCase.
func (m *MockSecretUseCase) List(
	ctx context.Context,
	principal string,
	privileged bool,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, principal, privileged, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

// Delete mocks the Delete method of SecretUseCase.
func (m *MockSecretUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Rewrap mocks the Rewrap method of SecretUseCase.
func (m *MockSecretUseCase) Rewrap(
	ctx context.Context,
	previous cryptoService.CipherEngine,
	offset, limit int,
) (*secretsDomain.RewrapResult, error) {
	args := m.Called(ctx, previous, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.RewrapResult), args.Error(1)
}
