package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
	apperrors "github.com/allisson/secretgate/internal/errors"
)

func localKeeperURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()

	t.Run("LocalKeeperWrapsSecretKey", func(t *testing.T) {
		keeper, err := NewKMSService().OpenKeeper(ctx, localKeeperURI(t))
		require.NoError(t, err)
		defer func() { assert.NoError(t, keeper.Close()) }()

		raw := make([]byte, cryptoDomain.KeySize)
		_, err = rand.Read(raw)
		require.NoError(t, err)

		wrapped, err := keeper.Encrypt(ctx, raw)
		require.NoError(t, err)
		assert.NotEqual(t, raw, wrapped)

		unwrapped, err := keeper.Decrypt(ctx, wrapped)
		require.NoError(t, err)
		assert.Equal(t, raw, unwrapped)
	})

	t.Run("ReturnsGocloudKeeper", func(t *testing.T) {
		keeper, err := NewKMSService().OpenKeeper(ctx, localKeeperURI(t))
		require.NoError(t, err)
		defer func() { assert.NoError(t, keeper.Close()) }()

		assert.IsType(t, &secrets.Keeper{}, keeper)
	})

	for _, uri := range []string{"", "vault://transit/key", "file:///tmp/key", "base64key"} {
		t.Run("RejectsScheme/"+uri, func(t *testing.T) {
			keeper, err := NewKMSService().OpenKeeper(ctx, uri)

			assert.Nil(t, keeper)
			assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedKMSScheme)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestKMSService_KeepersDoNotShareKeys(t *testing.T) {
	ctx := context.Background()
	service := NewKMSService()

	first, err := service.OpenKeeper(ctx, localKeeperURI(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, first.Close()) }()

	second, err := service.OpenKeeper(ctx, localKeeperURI(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, second.Close()) }()

	wrapped, err := first.Encrypt(ctx, []byte("secret key material"))
	require.NoError(t, err)

	_, err = second.Decrypt(ctx, wrapped)
	assert.Error(t, err)

	_, err = first.Decrypt(ctx, []byte("not a valid ciphertext"))
	assert.Error(t, err)
}
