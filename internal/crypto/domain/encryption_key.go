package domain

import (
	"encoding/base64"
	"log/slog"
	"strings"
)

const redacted = "EncryptionKey([REDACTED])"

// EncryptionKey holds the process wide 32 byte symmetric key.
//
// The key is loaded once at startup and never changes afterwards. Its
// String, GoString and LogValue forms are redacted so the key material can
// not leak through fmt or slog.
type EncryptionKey struct {
	key []byte
}

// NewEncryptionKey copies raw into a new EncryptionKey.
func NewEncryptionKey(raw []byte) (*EncryptionKey, error) {
	if len(raw) != KeySize {
		return nil, ErrInvalidKeySize
	}
	key := make([]byte, KeySize)
	copy(key, raw)
	return &EncryptionKey{key: key}, nil
}

// ParseEncryptionKey decodes a base64 (standard encoding) key.
func ParseEncryptionKey(encoded string) (*EncryptionKey, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrEncryptionKeyNotSet
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidKeyEncoding
	}
	defer Zero(raw)

	return NewEncryptionKey(raw)
}

// Bytes returns the key material. Callers must not retain or modify it.
func (k *EncryptionKey) Bytes() []byte {
	return k.key
}

// Close zeroes the key material.
func (k *EncryptionKey) Close() {
	Zero(k.key)
}

func (k *EncryptionKey) String() string {
	return redacted
}

func (k *EncryptionKey) GoString() string {
	return redacted
}

// LogValue implements slog.LogValuer.
func (k *EncryptionKey) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
