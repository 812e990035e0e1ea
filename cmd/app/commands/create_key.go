package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
)

// keyWrapper turns raw key material into a SECRET_KEY value.
type keyWrapper interface {
	Wrap(ctx context.Context, raw []byte) (string, error)
}

// RunCreateKey generates a random 32 byte key and prints it as a SECRET_KEY
// value. With a KMS key URI the printed value is the KMS ciphertext.
func RunCreateKey(
	ctx context.Context,
	wrapper keyWrapper,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	raw := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	defer cryptoDomain.Zero(raw)

	encoded, err := wrapper.Wrap(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to wrap key: %w", err)
	}

	logger.Info("encryption key generated", slog.Bool("kms", kmsKeyURI != ""))

	if format == formatJSON {
		result := map[string]any{"secret_key": encoded}
		if kmsKeyURI != "" {
			result["kms_key_uri"] = kmsKeyURI
		}
		return writeJSON(writer, result)
	}

	_, _ = fmt.Fprintln(writer, "# Store these values in your secret manager, never in source control.")
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%s\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(writer, "SECRET_KEY=%s\n", encoded)
	return nil
}
