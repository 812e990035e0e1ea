package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	auditUseCase "github.com/allisson/secretgate/internal/audit/usecase"
)

type cleanOutput struct {
	Count  int64 `json:"count"`
	Days   int   `json:"days"`
	DryRun bool  `json:"dry_run"`
}

// RunCleanAuditLogs enforces audit log retention: entries older than days are
// deleted, or only counted with dryRun.
func RunCleanAuditLogs(
	ctx context.Context,
	auditLogUseCase auditUseCase.AuditLogUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must not be negative, got %d", days)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	count, err := auditLogUseCase.DeleteOlderThan(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete audit logs: %w", err)
	}
	logger.Info("audit log retention applied",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun))

	if format == formatJSON {
		return writeJSON(writer, cleanOutput{Count: count, Days: days, DryRun: dryRun})
	}

	verb := "Deleted"
	if dryRun {
		verb = "Would delete"
	}
	_, _ = fmt.Fprintf(writer, "%s %d audit log(s) older than %d day(s)\n", verb, count, days)
	return nil
}
