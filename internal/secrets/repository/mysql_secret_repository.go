package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/secretgate/internal/database"
	apperrors "github.com/allisson/secretgate/internal/errors"
	secretsDomain "github.com/allisson/secretgate/internal/secrets/domain"
)

const mysqlSecretColumns = `id, name, value, visible_to, created_at, updated_at`

// MySQLSecretRepository implements Secret persistence for MySQL databases.
type MySQLSecretRepository struct {
	db *sql.DB
}

// GetByID retrieves a secret by its identifier.
func (m *MySQLSecretRepository) GetByID(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlSecretColumns + ` FROM secrets WHERE id = ?`

	secret, err := scanSecret(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret by id")
	}
	return secret, nil
}

// Upsert inserts a secret or replaces the existing row with the same id.
func (m *MySQLSecretRepository) Upsert(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	visibleTo, err := marshalVisibleTo(secret.VisibleTo)
	if err != nil {
		return err
	}

	query := `INSERT INTO secrets (` + mysqlSecretColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			      name = VALUES(name),
			      value = VALUES(value),
			      visible_to = VALUES(visible_to),
			      updated_at = VALUES(updated_at)`

	_, err = querier.ExecContext(
		ctx,
		query,
		secret.ID,
		secret.Name,
		secret.Value,
		visibleTo,
		secret.CreatedAt,
		secret.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert secret")
	}
	return nil
}

// List retrieves secrets ordered by name then id.
func (m *MySQLSecretRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	query := `SELECT ` + mysqlSecretColumns + ` FROM secrets
			  ORDER BY name ASC, id ASC
			  LIMIT ? OFFSET ?`

	return m.query(ctx, query, limit, offset)
}

// ListVisibleTo retrieves the secrets whose visible_to array contains principal.
func (m *MySQLSecretRepository) ListVisibleTo(
	ctx context.Context,
	principal string,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	query := `SELECT ` + mysqlSecretColumns + ` FROM secrets
			  WHERE JSON_CONTAINS(visible_to, JSON_QUOTE(?))
			  ORDER BY name ASC, id ASC
			  LIMIT ? OFFSET ?`

	return m.query(ctx, query, principal, limit, offset)
}

// Delete removes a secret by id.
func (m *MySQLSecretRepository) Delete(ctx context.Context, id string) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}

func (m *MySQLSecretRepository) query(
	ctx context.Context,
	query string,
	args ...any,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer func() {
		_ = rows.Close()
	}()

	secrets := make([]*secretsDomain.Secret, 0)
	for rows.Next() {
		secret, err := scanSecret(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret")
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}
	return secrets, nil
}

// NewMySQLSecretRepository creates a new MySQL Secret repository instance.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}
