// Package service provides the cipher engine that protects stored secret values
// and the key source that loads the process encryption key.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
)

// CipherEngine turns plaintext into an encoded value and back.
//
// Encoded values have the shape <nonce-hex>:<ciphertext-hex>. Implementations
// are stateless after construction and safe for concurrent use.
type CipherEngine interface {
	// Encrypt encrypts plaintext under a fresh random nonce.
	Encrypt(plaintext []byte) (string, error)

	// Decrypt returns the plaintext of an encoded value. It fails with
	// ErrMalformedInput when the value does not parse and with
	// ErrDecryptionFailed when it parses but cannot be decrypted.
	Decrypt(encodedValue string) ([]byte, error)
}

// KMSService opens KMS keepers used to unwrap the configured encryption key.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI.
	// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
