// Package repository implements audit log persistence for PostgreSQL, MySQL and MongoDB.
package repository

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/allisson/secretgate/internal/errors"
)

// buildTimeFilter returns the WHERE clause for the optional inclusive
// created_at bounds. placeholder renders the n-th (1-based) bind variable.
func buildTimeFilter(
	from, to *time.Time,
	placeholder func(n int) string,
) (string, []any) {
	var conditions []string
	var args []any

	if from != nil {
		args = append(args, *from)
		conditions = append(conditions, "created_at >= "+placeholder(len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conditions = append(conditions, "created_at <= "+placeholder(len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// marshalMetadata maps nil or empty metadata to NULL. JSON is bound as text:
// both SQL drivers reject raw bytes for JSON columns.
func marshalMetadata(metadata map[string]any) (sql.NullString, error) {
	if len(metadata) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return sql.NullString{}, apperrors.Wrap(err, "failed to marshal audit log metadata")
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalMetadata(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var metadata map[string]any
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit log metadata")
	}
	return metadata, nil
}
