package commands

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
	cryptoService "github.com/allisson/secretgate/internal/crypto/service"
)

type failingWrapper struct{}

func (failingWrapper) Wrap(ctx context.Context, raw []byte) (string, error) {
	return "", errors.New("kms unavailable")
}

func secretKeyLine(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if value, ok := strings.CutPrefix(line, "SECRET_KEY="); ok {
			return value
		}
	}
	t.Fatalf("no SECRET_KEY line in output: %q", output)
	return ""
}

func TestRunCreateKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("plain-key", func(t *testing.T) {
		loader := cryptoService.NewKeyLoader(cryptoService.NewKMSService(), "")

		var out bytes.Buffer
		err := RunCreateKey(ctx, loader, logger, &out, "", "text")
		require.NoError(t, err)

		encoded := secretKeyLine(t, out.String())
		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Len(t, raw, cryptoDomain.KeySize)
		assert.NotContains(t, out.String(), "KMS_KEY_URI")
	})

	t.Run("kms-wrapped-key-loads-back", func(t *testing.T) {
		kmsKey := make([]byte, 32)
		_, err := rand.Read(kmsKey)
		require.NoError(t, err)
		uri := "base64key://" + base64.URLEncoding.EncodeToString(kmsKey)
		loader := cryptoService.NewKeyLoader(cryptoService.NewKMSService(), uri)

		var out bytes.Buffer
		err = RunCreateKey(ctx, loader, logger, &out, uri, "json")
		require.NoError(t, err)

		var result map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, uri, result["kms_key_uri"])

		key, err := loader.Load(ctx, result["secret_key"])
		require.NoError(t, err)
		assert.Len(t, key.Bytes(), cryptoDomain.KeySize)
	})

	t.Run("wrap-error", func(t *testing.T) {
		err := RunCreateKey(ctx, failingWrapper{}, logger, &bytes.Buffer{}, "awskms://alias/x", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to wrap key")
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunCreateKey(ctx, failingWrapper{}, logger, &bytes.Buffer{}, "", "yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})
}
