package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/secretgate/internal/errors"
)

// assertMetricLine matches name{...labels...} value, tolerating the scope
// labels the exporter adds.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	assert.Regexp(t, name+`\{[^}]*`+labels+`[^}]*\} `+value, output)
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeSuccess},
		{apperrors.Wrap(apperrors.ErrNotFound, "secret not found"), OutcomeNotFound},
		{apperrors.ErrInvalidInput, OutcomeInvalid},
		{apperrors.ErrConflict, OutcomeInvalid},
		{apperrors.ErrForbidden, OutcomeDenied},
		{apperrors.ErrUnauthorized, OutcomeDenied},
		{fmt.Errorf("%w: store", apperrors.ErrTimeout), OutcomeTimeout},
		{errors.New("boom"), OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeOf(tt.err))
		})
	}
}

func TestBusinessMetrics_Observe(t *testing.T) {
	provider, err := NewProvider("secretgate")
	require.NoError(t, err)
	defer func() { assert.NoError(t, provider.Shutdown(context.Background())) }()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "secretgate")
	require.NoError(t, err)

	ctx := context.Background()
	bm.Observe(ctx, "secrets", "secret_retrieve", 2*time.Millisecond, nil)
	bm.Observe(ctx, "secrets", "secret_retrieve", 3*time.Millisecond, nil)
	bm.Observe(ctx, "secrets", "secret_retrieve", time.Millisecond, apperrors.ErrNotFound)
	bm.Observe(ctx, "secrets", "secret_retrieve", time.Second, apperrors.ErrTimeout)

	output := scrape(t, provider)

	assertMetricLine(t, output, `secretgate_operations_total`,
		`domain="secrets".*operation="secret_retrieve".*outcome="success"`, `2`)
	assertMetricLine(t, output, `secretgate_operations_total`,
		`domain="secrets".*operation="secret_retrieve".*outcome="not_found"`, `1`)
	assertMetricLine(t, output, `secretgate_operations_total`,
		`domain="secrets".*operation="secret_retrieve".*outcome="timeout"`, `1`)
	assertMetricLine(t, output, `secretgate_operation_duration_seconds_count`,
		`domain="secrets".*operation="secret_retrieve".*outcome="success"`, `2`)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()

	assert.IsType(t, NoOpBusinessMetrics{}, bm)
	assert.NotPanics(t, func() {
		bm.Observe(context.Background(), "secrets", "secret_create", time.Millisecond, errors.New("boom"))
	})
}
