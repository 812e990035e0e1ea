package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditMocks "github.com/allisson/secretgate/internal/audit/usecase/mocks"
)

func TestRunCleanAuditLogs(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name   string
		dryRun bool
		format string
		count  int64
		want   string
	}{
		{"Delete", false, "text", 100, "Deleted 100 audit log(s) older than 90 day(s)\n"},
		{"DryRun", true, "text", 7, "Would delete 7 audit log(s) older than 90 day(s)\n"},
		{"JSON", true, "json", 50, "{\n  \"count\": 50,\n  \"days\": 90,\n  \"dry_run\": true\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &auditMocks.MockAuditLogUseCase{}
			uc.On("DeleteOlderThan", ctx, 90, tt.dryRun).Return(tt.count, nil)

			var out bytes.Buffer
			err := RunCleanAuditLogs(ctx, uc, logger, &out, 90, tt.dryRun, tt.format)

			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
			uc.AssertExpectations(t)
		})
	}

	t.Run("UseCaseError", func(t *testing.T) {
		uc := &auditMocks.MockAuditLogUseCase{}
		uc.On("DeleteOlderThan", ctx, 90, false).Return(int64(0), errors.New("store down"))

		err := RunCleanAuditLogs(ctx, uc, logger, &bytes.Buffer{}, 90, false, "text")

		assert.ErrorContains(t, err, "failed to delete audit logs")
	})

	t.Run("RejectsBeforeCallingStore", func(t *testing.T) {
		uc := &auditMocks.MockAuditLogUseCase{}

		assert.ErrorContains(t, RunCleanAuditLogs(ctx, uc, logger, &bytes.Buffer{}, -1, false, "text"), "must not be negative")
		assert.ErrorContains(t, RunCleanAuditLogs(ctx, uc, logger, &bytes.Buffer{}, 90, false, "yaml"), "invalid format")
		uc.AssertNumberOfCalls(t, "DeleteOlderThan", 0)
	})
}
