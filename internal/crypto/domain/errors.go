package domain

import (
	"github.com/allisson/secretgate/internal/errors"
)

// Cryptographic error definitions.
var (
	// ErrEncryptionKeyNotSet indicates SECRET_KEY is empty. The process must not start without a key.
	ErrEncryptionKeyNotSet = errors.New("encryption key not set")

	// ErrInvalidKeySize indicates the decoded key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKeyEncoding indicates the configured key is not valid base64.
	ErrInvalidKeyEncoding = errors.Wrap(errors.ErrInvalidInput, "invalid key encoding")

	// ErrMalformedInput indicates an encoded value that does not have the
	// <nonce-hex>:<ciphertext-hex> shape or carries a nonce of the wrong length.
	ErrMalformedInput = errors.Wrap(errors.ErrInvalidInput, "malformed encoded value")

	// ErrDecryptionFailed indicates a well formed value that could not be
	// decrypted: wrong key, tampering or bad padding, never told apart.
	//
	// HTTP Status: 500 Internal Server Error
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrUnsupportedKMSScheme indicates a KMS_KEY_URI whose scheme has no
	// registered keeper driver.
	ErrUnsupportedKMSScheme = errors.Wrap(errors.ErrInvalidInput, "unsupported kms key uri scheme")
)
