package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/secretgate/internal/audit/domain"
	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
)

func newTestKey(t *testing.T, fill byte) *cryptoDomain.EncryptionKey {
	t.Helper()
	key, err := cryptoDomain.NewEncryptionKey(bytes.Repeat([]byte{fill}, cryptoDomain.KeySize))
	require.NoError(t, err)
	return key
}

func newTestLog() *auditDomain.AuditLog {
	return &auditDomain.AuditLog{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  "req-1",
		Principal:  "admin@example.com",
		Action:     auditDomain.ActionSecretRead,
		ResourceID: "abc123",
		Result:     auditDomain.ResultSuccess,
		Metadata:   map[string]any{"ip": "10.0.0.1", "status": float64(200)},
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 123000000, time.UTC),
	}
}

func TestNewAuditSigner(t *testing.T) {
	_, err := NewAuditSigner(nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionKeyNotSet)

	signer, err := NewAuditSigner(newTestKey(t, 0x11))
	require.NoError(t, err)
	assert.NotNil(t, signer)
}

func TestAuditSigner_SignAndVerify(t *testing.T) {
	signer, err := NewAuditSigner(newTestKey(t, 0x11))
	require.NoError(t, err)

	log := newTestLog()
	signature, err := signer.Sign(log)
	require.NoError(t, err)
	assert.Len(t, signature, 32)

	log.Signature = signature
	assert.NoError(t, signer.Verify(log))

	again, err := signer.Sign(log)
	require.NoError(t, err)
	assert.Equal(t, signature, again, "signing must be deterministic")
}

func TestAuditSigner_SignatureIsNotTheEncryptionKey(t *testing.T) {
	key := newTestKey(t, 0x11)
	signer, err := NewAuditSigner(key)
	require.NoError(t, err)

	assert.NotEqual(t, key.Bytes(), signer.(*auditSigner).signingKey)
}

func TestAuditSigner_DetectsTampering(t *testing.T) {
	signer, err := NewAuditSigner(newTestKey(t, 0x11))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(log *auditDomain.AuditLog)
	}{
		{"RequestID", func(l *auditDomain.AuditLog) { l.RequestID = "req-2" }},
		{"Principal", func(l *auditDomain.AuditLog) { l.Principal = "mallory@example.com" }},
		{"Action", func(l *auditDomain.AuditLog) { l.Action = auditDomain.ActionSecretDelete }},
		{"ResourceID", func(l *auditDomain.AuditLog) { l.ResourceID = "other" }},
		{"Result", func(l *auditDomain.AuditLog) { l.Result = auditDomain.ResultFailure }},
		{"Metadata", func(l *auditDomain.AuditLog) { l.Metadata["ip"] = "10.0.0.2" }},
		{"MetadataRemoved", func(l *auditDomain.AuditLog) { l.Metadata = nil }},
		{"CreatedAt", func(l *auditDomain.AuditLog) { l.CreatedAt = l.CreatedAt.Add(time.Millisecond) }},
		{"Signature", func(l *auditDomain.AuditLog) { l.Signature[0] ^= 0x01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := newTestLog()
			log.Signature, err = signer.Sign(log)
			require.NoError(t, err)

			tt.mutate(log)

			assert.ErrorIs(t, signer.Verify(log), auditDomain.ErrSignatureInvalid)
		})
	}
}

func TestAuditSigner_FieldBoundariesAreUnambiguous(t *testing.T) {
	signer, err := NewAuditSigner(newTestKey(t, 0x11))
	require.NoError(t, err)

	a := newTestLog()
	a.RequestID, a.Principal = "ab", "c"
	b := newTestLog()
	b.RequestID, b.Principal = "a", "bc"

	sigA, err := signer.Sign(a)
	require.NoError(t, err)
	sigB, err := signer.Sign(b)
	require.NoError(t, err)

	assert.NotEqual(t, sigA, sigB)
}

func TestAuditSigner_DifferentKeys(t *testing.T) {
	signerA, err := NewAuditSigner(newTestKey(t, 0x11))
	require.NoError(t, err)
	signerB, err := NewAuditSigner(newTestKey(t, 0x22))
	require.NoError(t, err)

	log := newTestLog()
	log.Signature, err = signerA.Sign(log)
	require.NoError(t, err)

	assert.ErrorIs(t, signerB.Verify(log), auditDomain.ErrSignatureInvalid)
}
