// Package domain defines the audit trail model. Every secret read or write and
// every denied request leaves one signed entry.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action names the audited operation.
type Action string

const (
	ActionSecretRead       Action = "secret.read"
	ActionSecretCreate     Action = "secret.create"
	ActionSecretUpdate     Action = "secret.update"
	ActionSecretDelete     Action = "secret.delete"
	ActionPermissionDenied Action = "access.permission_denied"
)

// Result is the outcome of the audited operation.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// AuditLog is one audit trail entry.
//
// Signature is an HMAC-SHA256 over the canonical form of every other field
// except ID. SignatureValid is computed on read and never persisted.
type AuditLog struct {
	ID             uuid.UUID
	RequestID      string
	Principal      string
	Action         Action
	ResourceID     string
	Result         Result
	Metadata       map[string]any
	Signature      []byte
	SignatureValid bool
	CreatedAt      time.Time
}

// IsSigned reports whether the entry carries a signature.
func (a *AuditLog) IsSigned() bool {
	return len(a.Signature) > 0
}

// VerificationReport summarizes an integrity check over a time range.
type VerificationReport struct {
	TotalChecked  int64
	SignedCount   int64
	UnsignedCount int64
	ValidCount    int64
	InvalidCount  int64
	InvalidLogs   []uuid.UUID
}
