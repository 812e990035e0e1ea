// Package repository implements the secret record store for PostgreSQL,
// MySQL and MongoDB. The store only moves encoded values around; it never
// encrypts or decrypts.
package repository

import (
	"encoding/json"

	apperrors "github.com/allisson/secretgate/internal/errors"
	secretsDomain "github.com/allisson/secretgate/internal/secrets/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSecret(row rowScanner) (*secretsDomain.Secret, error) {
	var secret secretsDomain.Secret
	var visibleTo []byte
	if err := row.Scan(
		&secret.ID,
		&secret.Name,
		&secret.Value,
		&visibleTo,
		&secret.CreatedAt,
		&secret.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(visibleTo, &secret.VisibleTo); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal visible_to")
	}
	return &secret, nil
}

// marshalVisibleTo encodes principals as a JSON array; nil becomes [].
func marshalVisibleTo(principals []string) (string, error) {
	if principals == nil {
		principals = []string{}
	}
	b, err := json.Marshal(principals)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal visible_to")
	}
	return string(b), nil
}
