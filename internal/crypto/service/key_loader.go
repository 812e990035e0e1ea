package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
)

// KeyLoader resolves configured key strings into encryption keys.
type KeyLoader struct {
	kmsService KMSService
	kmsKeyURI  string
}

// NewKeyLoader creates a KeyLoader. With an empty kmsKeyURI the configured
// value is the base64 key itself; otherwise it is the base64 KMS ciphertext
// of the key.
func NewKeyLoader(kmsService KMSService, kmsKeyURI string) *KeyLoader {
	return &KeyLoader{kmsService: kmsService, kmsKeyURI: kmsKeyURI}
}

// Load returns the encryption key for encoded.
func (l *KeyLoader) Load(ctx context.Context, encoded string) (*cryptoDomain.EncryptionKey, error) {
	if l.kmsKeyURI == "" {
		return cryptoDomain.ParseEncryptionKey(encoded)
	}

	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, cryptoDomain.ErrEncryptionKeyNotSet
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKeyEncoding
	}

	keeper, err := l.kmsService.OpenKeeper(ctx, l.kmsKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt encryption key with KMS: %w", err)
	}
	defer cryptoDomain.Zero(plaintext)

	return cryptoDomain.NewEncryptionKey(plaintext)
}

// Wrap encrypts raw key material with the KMS keeper and returns it base64
// encoded, ready to be used as SECRET_KEY. Without a KMS URI the raw key is
// returned base64 encoded.
func (l *KeyLoader) Wrap(ctx context.Context, raw []byte) (string, error) {
	if len(raw) != cryptoDomain.KeySize {
		return "", cryptoDomain.ErrInvalidKeySize
	}
	if l.kmsKeyURI == "" {
		return base64.StdEncoding.EncodeToString(raw), nil
	}

	keeper, err := l.kmsService.OpenKeeper(ctx, l.kmsKeyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt encryption key with KMS: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
