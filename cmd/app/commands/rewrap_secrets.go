package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cryptoService "github.com/allisson/secretgate/internal/crypto/service"
	secretsUseCase "github.com/allisson/secretgate/internal/secrets/usecase"
)

// ErrPreviousKeyNotSet is returned when rewrap-secrets runs without PREVIOUS_SECRET_KEY.
var ErrPreviousKeyNotSet = errors.New("PREVIOUS_SECRET_KEY is required to rewrap secrets")

type rewrapTotals struct {
	Scanned   int      `json:"scanned"`
	Rewrapped int      `json:"rewrapped"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids"`
}

// RunRewrapSecrets re-encrypts every record still under the previous key
// with the active one, batchSize records at a time. Records readable with
// neither key are reported and make the command fail after the full pass.
func RunRewrapSecrets(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	previous cryptoService.CipherEngine,
	logger *slog.Logger,
	writer io.Writer,
	batchSize int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if previous == nil {
		return ErrPreviousKeyNotSet
	}
	if batchSize < 1 {
		return fmt.Errorf("batch size must be a positive number, got: %d", batchSize)
	}

	logger.Info("rewrapping secrets", slog.Int("batch_size", batchSize))

	totals := rewrapTotals{FailedIDs: []string{}}
	for offset := 0; ; offset += batchSize {
		result, err := secretUseCase.Rewrap(ctx, previous, offset, batchSize)
		if err != nil {
			return fmt.Errorf("failed to rewrap secrets at offset %d: %w", offset, err)
		}

		totals.Scanned += result.Scanned
		totals.Rewrapped += result.Rewrapped
		totals.Skipped += result.Skipped
		totals.Failed += result.Failed
		totals.FailedIDs = append(totals.FailedIDs, result.FailedIDs...)

		logger.Info("batch rewrapped",
			slog.Int("offset", offset),
			slog.Int("rewrapped", result.Rewrapped),
			slog.Int("skipped", result.Skipped),
			slog.Int("failed", result.Failed),
		)

		if result.Scanned < batchSize {
			break
		}
	}

	if format == formatJSON {
		if err := writeJSON(writer, totals); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Scanned:   %d\n", totals.Scanned)
		_, _ = fmt.Fprintf(writer, "Rewrapped: %d\n", totals.Rewrapped)
		_, _ = fmt.Fprintf(writer, "Skipped:   %d\n", totals.Skipped)
		_, _ = fmt.Fprintf(writer, "Failed:    %d\n", totals.Failed)
		for _, id := range totals.FailedIDs {
			_, _ = fmt.Fprintf(writer, "  - %s\n", id)
		}
	}

	if totals.Failed > 0 {
		return fmt.Errorf("%d secret(s) could not be decrypted with either key", totals.Failed)
	}
	return nil
}
