package domain

import (
	"github.com/allisson/secretgate/internal/errors"
)

var (
	// ErrAdminNotFound indicates the principal holds no admin grant.
	ErrAdminNotFound = errors.Wrap(errors.ErrNotFound, "admin not found")

	// ErrAdminAlreadyExists indicates the principal is already an admin.
	ErrAdminAlreadyExists = errors.Wrap(errors.ErrConflict, "admin already exists")

	// ErrMissingPrincipal indicates the request carries no principal identity.
	ErrMissingPrincipal = errors.Wrap(errors.ErrUnauthorized, "missing principal")

	// ErrNotPrivileged indicates the principal lacks the admin capability.
	ErrNotPrivileged = errors.Wrap(errors.ErrForbidden, "principal is not privileged")
)
