package repository

import (
	"context"
	"database/sql"

	accessDomain "github.com/allisson/secretgate/internal/access/domain"
	"github.com/allisson/secretgate/internal/database"
	apperrors "github.com/allisson/secretgate/internal/errors"
)

// MySQLAdminRepository implements Admin persistence for MySQL.
type MySQLAdminRepository struct {
	db *sql.DB
}

// Exists reports whether principal holds an admin grant.
func (m *MySQLAdminRepository) Exists(ctx context.Context, principal string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	var exists bool
	err := querier.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM admins WHERE principal = ?)`, principal).
		Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check admin")
	}
	return exists, nil
}

// Create inserts an admin grant. A duplicate principal maps to ErrAdminAlreadyExists.
func (m *MySQLAdminRepository) Create(ctx context.Context, admin *accessDomain.Admin) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(
		ctx,
		`INSERT INTO admins (principal, created_at) VALUES (?, ?)`,
		admin.Principal,
		admin.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return accessDomain.ErrAdminAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create admin")
	}
	return nil
}

// Delete removes an admin grant.
func (m *MySQLAdminRepository) Delete(ctx context.Context, principal string) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM admins WHERE principal = ?`, principal)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete admin")
	}
	return checkDeleted(result)
}

// List returns every admin ordered by principal.
func (m *MySQLAdminRepository) List(ctx context.Context) ([]*accessDomain.Admin, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, `SELECT principal, created_at FROM admins ORDER BY principal ASC`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list admins")
	}
	return scanAdmins(rows)
}

// NewMySQLAdminRepository creates a new MySQL Admin repository.
func NewMySQLAdminRepository(db *sql.DB) *MySQLAdminRepository {
	return &MySQLAdminRepository{db: db}
}
