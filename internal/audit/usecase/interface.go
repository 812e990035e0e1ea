// Package usecase records and reads the signed audit trail.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/secretgate/internal/audit/domain"
)

// AuditLogRepository defines persistence operations for audit logs.
type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *auditDomain.AuditLog) error
	// List returns entries newest first. Nil bounds are not applied.
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error)
}

// AuditLogUseCase defines the audit trail business logic.
type AuditLogUseCase interface {
	// Create signs and stores one entry. metadata may be nil.
	Create(
		ctx context.Context,
		requestID string,
		principal string,
		action auditDomain.Action,
		resourceID string,
		result auditDomain.Result,
		metadata map[string]any,
	) error
	// List returns entries newest first with SignatureValid populated.
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditLog, error)
	// VerifyBatch checks every signature in [start, end].
	VerifyBatch(ctx context.Context, start, end time.Time) (*auditDomain.VerificationReport, error)
	// DeleteOlderThan removes entries older than days, or counts them when dryRun is set.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}
