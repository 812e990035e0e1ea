package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	accessDomain "github.com/allisson/secretgate/internal/access/domain"
	"github.com/allisson/secretgate/internal/database"
	customValidation "github.com/allisson/secretgate/internal/validation"
)

type adminUseCase struct {
	txManager database.TxManager
	adminRepo AdminRepository
}

// IsPrivileged reports whether principal is an admin. A blank principal is never privileged.
func (a *adminUseCase) IsPrivileged(ctx context.Context, principal string) (bool, error) {
	if strings.TrimSpace(principal) == "" {
		return false, nil
	}
	return a.adminRepo.Exists(ctx, principal)
}

// Grant makes principal an admin. The existence check and insert share a transaction.
func (a *adminUseCase) Grant(ctx context.Context, principal string) (*accessDomain.Admin, error) {
	if err := validatePrincipal(principal); err != nil {
		return nil, err
	}

	admin := &accessDomain.Admin{
		Principal: principal,
		CreatedAt: time.Now().UTC(),
	}

	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		exists, err := a.adminRepo.Exists(ctx, principal)
		if err != nil {
			return err
		}
		if exists {
			return accessDomain.ErrAdminAlreadyExists
		}
		return a.adminRepo.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// Revoke removes the admin grant of principal.
func (a *adminUseCase) Revoke(ctx context.Context, principal string) error {
	if err := validatePrincipal(principal); err != nil {
		return err
	}
	return a.adminRepo.Delete(ctx, principal)
}

// List returns every admin ordered by principal.
func (a *adminUseCase) List(ctx context.Context) ([]*accessDomain.Admin, error) {
	return a.adminRepo.List(ctx)
}

func validatePrincipal(principal string) error {
	err := validation.Validate(principal,
		validation.Required,
		customValidation.NotBlank,
		customValidation.NoWhitespace,
		customValidation.Email,
	)
	return customValidation.WrapValidationError(err)
}

// NewAdminUseCase creates a new AdminUseCase.
func NewAdminUseCase(txManager database.TxManager, adminRepo AdminRepository) AdminUseCase {
	return &adminUseCase{
		txManager: txManager,
		adminRepo: adminRepo,
	}
}
