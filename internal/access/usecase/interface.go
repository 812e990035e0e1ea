// Package usecase implements the capability provider. The only capability is
// the admin flag; whether a principal holds it is answered by PrivilegeChecker.
package usecase

import (
	"context"

	accessDomain "github.com/allisson/secretgate/internal/access/domain"
)

// AdminRepository defines persistence operations for admin grants.
type AdminRepository interface {
	Exists(ctx context.Context, principal string) (bool, error)
	// Create returns ErrAdminAlreadyExists on a duplicate principal.
	Create(ctx context.Context, admin *accessDomain.Admin) error
	// Delete returns ErrAdminNotFound when nothing was deleted.
	Delete(ctx context.Context, principal string) error
	List(ctx context.Context) ([]*accessDomain.Admin, error)
}

// PrivilegeChecker answers whether a principal holds the admin capability.
type PrivilegeChecker interface {
	IsPrivileged(ctx context.Context, principal string) (bool, error)
}

// AdminUseCase manages admin grants.
type AdminUseCase interface {
	PrivilegeChecker
	Grant(ctx context.Context, principal string) (*accessDomain.Admin, error)
	Revoke(ctx context.Context, principal string) error
	List(ctx context.Context) ([]*accessDomain.Admin, error)
}
