// Package repository implements admin grant persistence for PostgreSQL, MySQL and MongoDB.
package repository

import (
	"context"
	"database/sql"

	accessDomain "github.com/allisson/secretgate/internal/access/domain"
	"github.com/allisson/secretgate/internal/database"
	apperrors "github.com/allisson/secretgate/internal/errors"
)

// PostgreSQLAdminRepository implements Admin persistence for PostgreSQL.
type PostgreSQLAdminRepository struct {
	db *sql.DB
}

// Exists reports whether principal holds an admin grant.
func (p *PostgreSQLAdminRepository) Exists(ctx context.Context, principal string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	var exists bool
	err := querier.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM admins WHERE principal = $1)`, principal).
		Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check admin")
	}
	return exists, nil
}

// Create inserts an admin grant. A duplicate principal maps to ErrAdminAlreadyExists.
func (p *PostgreSQLAdminRepository) Create(ctx context.Context, admin *accessDomain.Admin) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(
		ctx,
		`INSERT INTO admins (principal, created_at) VALUES ($1, $2)`,
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
func (p *PostgreSQLAdminRepository) Delete(ctx context.Context, principal string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM admins WHERE principal = $1`, principal)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete admin")
	}
	return checkDeleted(result)
}

// List returns every admin ordered by principal.
func (p *PostgreSQLAdminRepository) List(ctx context.Context) ([]*accessDomain.Admin, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, `SELECT principal, created_at FROM admins ORDER BY principal ASC`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list admins")
	}
	return scanAdmins(rows)
}

// NewPostgreSQLAdminRepository creates a new PostgreSQL Admin repository.
func NewPostgreSQLAdminRepository(db *sql.DB) *PostgreSQLAdminRepository {
	return &PostgreSQLAdminRepository{db: db}
}

func checkDeleted(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return accessDomain.ErrAdminNotFound
	}
	return nil
}

func scanAdmins(rows *sql.Rows) ([]*accessDomain.Admin, error) {
	defer func() {
		_ = rows.Close()
	}()

	admins := make([]*accessDomain.Admin, 0)
	for rows.Next() {
		var admin accessDomain.Admin
		if err := rows.Scan(&admin.Principal, &admin.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan admin")
		}
		admin.CreatedAt = admin.CreatedAt.UTC()
		admins = append(admins, &admin)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate admins")
	}
	return admins, nil
}
