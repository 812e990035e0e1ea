package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/secretgate/internal/app"
	auditDomain "github.com/allisson/secretgate/internal/audit/domain"
)

func TestIntegration_AuditLogSignatures(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	for _, store := range stores()[:2] {
		t.Run(store.name, func(t *testing.T) {
			ctx := context.Background()
			tc := setupIntegrationTest(t, store, randomKey(t))
			start := time.Now().UTC().Add(-time.Minute)

			id := tc.createSecret(t, "stripe", "sk_live_xyz")
			status, _ := tc.do(t, http.MethodGet, "/api/decrypt-password?secretId="+id, adminPrincipal, "")
			require.Equal(t, http.StatusOK, status)
			status, _ = tc.do(t, http.MethodGet, "/api/decrypt-password?secretId="+id, viewerPrincipal, "")
			require.Equal(t, http.StatusForbidden, status)

			auditLogUseCase, err := tc.container.AuditLogUseCase()
			require.NoError(t, err)
			end := time.Now().UTC().Add(time.Minute)

			report, err := auditLogUseCase.VerifyBatch(ctx, start, end)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, report.TotalChecked, int64(3))
			assert.Equal(t, report.TotalChecked, report.ValidCount)
			assert.Zero(t, report.InvalidCount)

			logs, err := auditLogUseCase.List(ctx, 0, 100, nil, nil)
			require.NoError(t, err)
			var denied *auditDomain.AuditLog
			for _, entry := range logs {
				if entry.Action == auditDomain.ActionPermissionDenied {
					denied = entry
				}
			}
			require.NotNil(t, denied, "permission denied entry not recorded")
			assert.Equal(t, viewerPrincipal, denied.Principal)

			query, idArg := "UPDATE audit_logs SET principal = $1 WHERE id = $2", any(denied.ID.String())
			if store.driver == app.DriverMySQL {
				query, idArg = "UPDATE audit_logs SET principal = ? WHERE id = ?", denied.ID[:]
			}
			_, err = tc.db.Exec(query, "someone-else@example.com", idArg)
			require.NoError(t, err)

			report, err = auditLogUseCase.VerifyBatch(ctx, start, end)
			require.NoError(t, err)
			assert.Equal(t, int64(1), report.InvalidCount)
			assert.Equal(t, denied.ID, report.InvalidLogs[0])
		})
	}
}

func TestIntegration_KeyRotation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	for _, store := range stores() {
		t.Run(store.name, func(t *testing.T) {
			ctx := context.Background()
			oldKey := randomKey(t)
			tc := setupIntegrationTest(t, store, oldKey)
			id := tc.createSecret(t, "stripe", "sk_live_xyz")

			cfg := *tc.container.Config()
			cfg.SecretKey = randomKey(t)
			cfg.PreviousSecretKey = oldKey
			rotated := app.NewContainer(&cfg)
			t.Cleanup(func() { _ = rotated.Shutdown(context.Background()) })

			secretUseCase, err := rotated.SecretUseCase()
			require.NoError(t, err)
			_, err = secretUseCase.Retrieve(ctx, id)
			require.Error(t, err, "new key must not read old ciphertext before rewrap")

			previous, err := rotated.PreviousCipherEngine()
			require.NoError(t, err)

			result, err := secretUseCase.Rewrap(ctx, previous, 0, 100)
			require.NoError(t, err)
			assert.Equal(t, 1, result.Rewrapped)
			assert.Zero(t, result.Failed)

			secret, err := secretUseCase.Retrieve(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, []byte("sk_live_xyz"), secret.Plaintext)

			result, err = secretUseCase.Rewrap(ctx, previous, 0, 100)
			require.NoError(t, err)
			assert.Equal(t, 1, result.Skipped)
			assert.Zero(t, result.Rewrapped)
		})
	}
}
