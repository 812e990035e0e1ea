// Package service provides tamper-evident signing for audit log entries.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/allisson/secretgate/internal/audit/domain"
	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
)

// signingKeyInfo is versioned; changing it invalidates every existing signature.
const signingKeyInfo = "audit-log-signing-v1"

// AuditSigner signs and verifies audit log entries.
type AuditSigner interface {
	// Sign returns the 32 byte HMAC-SHA256 of the canonical entry.
	Sign(log *auditDomain.AuditLog) ([]byte, error)
	// Verify returns ErrSignatureInvalid when log.Signature does not match.
	Verify(log *auditDomain.AuditLog) error
}

type auditSigner struct {
	signingKey []byte
}

// NewAuditSigner derives the signing key from the process encryption key
// with HKDF-SHA256, keeping encryption and signing keys separate.
func NewAuditSigner(key *cryptoDomain.EncryptionKey) (AuditSigner, error) {
	if key == nil {
		return nil, cryptoDomain.ErrEncryptionKeyNotSet
	}

	signingKey := make([]byte, sha256.Size)
	reader := hkdf.New(sha256.New, key.Bytes(), nil, []byte(signingKeyInfo))
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}

	return &auditSigner{signingKey: signingKey}, nil
}

// canonicalizeLog produces the byte string that is signed:
// request_id || principal || action || resource_id || result || metadata || created_at.
// Variable-length fields are length-prefixed so field boundaries are unambiguous.
func canonicalizeLog(log *auditDomain.AuditLog) ([]byte, error) {
	buf := make([]byte, 0, 512)

	buf = appendLengthPrefixed(buf, []byte(log.RequestID))
	buf = appendLengthPrefixed(buf, []byte(log.Principal))
	buf = appendLengthPrefixed(buf, []byte(log.Action))
	buf = appendLengthPrefixed(buf, []byte(log.ResourceID))
	buf = appendLengthPrefixed(buf, []byte(log.Result))

	if len(log.Metadata) > 0 {
		// encoding/json sorts map keys, which keeps this deterministic.
		metadataBytes, err := json.Marshal(log.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	buf = binary.BigEndian.AppendUint64(buf, uint64(log.CreatedAt.UnixNano()))
	return buf, nil
}

func appendLengthPrefixed(buf []byte, data []byte) []byte {
	if len(data) > math.MaxUint32 {
		panic("audit field exceeds uint32 length")
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// Sign generates the HMAC-SHA256 signature for log.
func (a *auditSigner) Sign(log *auditDomain.AuditLog) ([]byte, error) {
	canonical, err := canonicalizeLog(log)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize log: %w", err)
	}

	mac := hmac.New(sha256.New, a.signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

// Verify checks log.Signature in constant time.
func (a *auditSigner) Verify(log *auditDomain.AuditLog) error {
	expected, err := a.Sign(log)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(log.Signature, expected) {
		return auditDomain.ErrSignatureInvalid
	}
	return nil
}
