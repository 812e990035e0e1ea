package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/secretgate/internal/database"
	apperrors "github.com/allisson/secretgate/internal/errors"
	secretsDomain "github.com/allisson/secretgate/internal/secrets/domain"
)

const postgresSecretColumns = `id, name, value, visible_to, created_at, updated_at`

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// GetByID retrieves a secret by its identifier.
func (p *PostgreSQLSecretRepository) GetByID(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresSecretColumns + ` FROM secrets WHERE id = $1`

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
func (p *PostgreSQLSecretRepository) Upsert(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	visibleTo, err := marshalVisibleTo(secret.VisibleTo)
	if err != nil {
		return err
	}

	query := `INSERT INTO secrets (` + postgresSecretColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (id) DO UPDATE SET
			      name = EXCLUDED.name,
			      value = EXCLUDED.value,
			      visible_to = EXCLUDED.visible_to,
			      updated_at = EXCLUDED.updated_at`

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
func (p *PostgreSQLSecretRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	query := `SELECT ` + postgresSecretColumns + ` FROM secrets
			  ORDER BY name ASC, id ASC
			  LIMIT $1 OFFSET $2`

	return p.query(ctx, query, limit, offset)
}

// ListVisibleTo retrieves the secrets whose visible_to array contains principal.
func (p *PostgreSQLSecretRepository) ListVisibleTo(
	ctx context.Context,
	principal string,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	filter, err := marshalVisibleTo([]string{principal})
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + postgresSecretColumns + ` FROM secrets
			  WHERE visible_to @> $1::jsonb
			  ORDER BY name ASC, id ASC
			  LIMIT $2 OFFSET $3`

	return p.query(ctx, query, filter, limit, offset)
}

// Delete removes a secret by id.
func (p *PostgreSQLSecretRepository) Delete(ctx context.Context, id string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE id = $1`, id)
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

func (p *PostgreSQLSecretRepository) query(
	ctx context.Context,
	query string,
	args ...any,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

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

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}
