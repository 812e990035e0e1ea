package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/secretgate/internal/audit/domain"
	auditService "github.com/allisson/secretgate/internal/audit/service"
	apperrors "github.com/allisson/secretgate/internal/errors"
)

// verifyPageSize bounds memory use of VerifyBatch.
const verifyPageSize = 1000

type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	signer       auditService.AuditSigner
}

// Create records an audit entry with a UUIDv7 id. The timestamp is truncated
// to milliseconds, the coarsest precision of the supported stores, so the
// signature still verifies after a round trip.
func (a *auditLogUseCase) Create(
	ctx context.Context,
	requestID string,
	principal string,
	action auditDomain.Action,
	resourceID string,
	result auditDomain.Result,
	metadata map[string]any,
) error {
	auditLog := &auditDomain.AuditLog{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  requestID,
		Principal:  principal,
		Action:     action,
		ResourceID: resourceID,
		Result:     result,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}

	signature, err := a.signer.Sign(auditLog)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign audit log")
	}
	auditLog.Signature = signature

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}
	return nil
}

// List retrieves audit logs and verifies each signature.
func (a *auditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditLog, error) {
	if createdAtFrom != nil && createdAtTo != nil && createdAtFrom.After(*createdAtTo) {
		return nil, auditDomain.ErrInvalidTimeRange
	}

	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}

	for _, auditLog := range auditLogs {
		auditLog.SignatureValid = auditLog.IsSigned() && a.signer.Verify(auditLog) == nil
	}
	return auditLogs, nil
}

// VerifyBatch walks every entry in the range page by page.
func (a *auditLogUseCase) VerifyBatch(
	ctx context.Context,
	start, end time.Time,
) (*auditDomain.VerificationReport, error) {
	report := &auditDomain.VerificationReport{InvalidLogs: []uuid.UUID{}}

	for offset := 0; ; offset += verifyPageSize {
		auditLogs, err := a.auditLogRepo.List(ctx, offset, verifyPageSize, &start, &end)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list audit logs")
		}

		for _, auditLog := range auditLogs {
			report.TotalChecked++
			if !auditLog.IsSigned() {
				report.UnsignedCount++
				continue
			}
			report.SignedCount++

			err := a.signer.Verify(auditLog)
			switch {
			case err == nil:
				report.ValidCount++
			case errors.Is(err, auditDomain.ErrSignatureInvalid):
				report.InvalidCount++
				report.InvalidLogs = append(report.InvalidLogs, auditLog.ID)
			default:
				return nil, apperrors.Wrap(err, "failed to verify audit log")
			}
		}

		if len(auditLogs) < verifyPageSize {
			return report, nil
		}
	}
}

// DeleteOlderThan removes entries created more than days ago.
func (a *auditLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must not be negative")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	count, err := a.auditLogRepo.DeleteOlderThan(ctx, cutoff, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}
	return count, nil
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
func NewAuditLogUseCase(auditLogRepo AuditLogRepository, signer auditService.AuditSigner) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		signer:       signer,
	}
}
