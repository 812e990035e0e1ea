// Package mocks provides testify mocks for the access use case layer.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/secretgate/internal/access/domain"
)

// MockAdminRepository is a mock of usecase.AdminRepository.
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Exists(ctx context.Context, principal string) (bool, error) {
	args := m.Called(ctx, principal)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *accessDomain.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) Delete(ctx context.Context, principal string) error {
	args := m.Called(ctx, principal)
	return args.Error(0)
}

func (m *MockAdminRepository) List(ctx context.Context) ([]*accessDomain.Admin, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.Admin), args.Error(1)
}

// MockPrivilegeChecker is a mock of usecase.PrivilegeChecker.
type MockPrivilegeChecker struct {
	mock.Mock
}

func (m *MockPrivilegeChecker) IsPrivileged(ctx context.Context, principal string) (bool, error) {
	args := m.Called(ctx, principal)
	return args.Bool(0), args.Error(1)
}

// MockAdminUseCase is a mock of usecase.AdminUseCase.
type MockAdminUseCase struct {
	MockPrivilegeChecker
}

func (m *MockAdminUseCase) Grant(ctx context.Context, principal string) (*accessDomain.Admin, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.Admin), args.Error(1)
}

func (m *MockAdminUseCase) Revoke(ctx context.Context, principal string) error {
	args := m.Called(ctx, principal)
	return args.Error(0)
}

func (m *MockAdminUseCase) List(ctx context.Context) ([]*accessDomain.Admin, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.Admin), args.Error(1)
}
