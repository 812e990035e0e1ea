// Package domain defines the core domain models and types for secret management.
package domain

import (
	"slices"
	"time"
)

// Secret is a stored credential. Value is always an encoded value produced by
// the cipher engine, never plaintext.
type Secret struct {
	// ID is the opaque identifier used to look the secret up.
	ID string
	// Name is a human readable label.
	Name string
	// Value is the encoded ciphertext, <nonce-hex>:<ciphertext-hex>.
	Value string
	// VisibleTo lists the principals allowed to see this entry in listings.
	VisibleTo []string
	// Plaintext holds the decrypted value in memory only; must be zeroed after use.
	Plaintext []byte `json:"-"`
	// CreatedAt is the UTC timestamp of the first write.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last write.
	UpdatedAt time.Time
}

// IsVisibleTo reports whether principal is listed in VisibleTo.
func (s *Secret) IsVisibleTo(principal string) bool {
	return principal != "" && slices.Contains(s.VisibleTo, principal)
}

// SecretInput carries the caller supplied fields of a write.
type SecretInput struct {
	Name      string
	Value     []byte
	VisibleTo []string
}

// RewrapResult summarizes one page of a key rotation pass.
type RewrapResult struct {
	// Scanned is the number of records read.
	Scanned int
	// Rewrapped is the number of records re-encrypted under the active key.
	Rewrapped int
	// Skipped is the number of records already readable with the active key.
	Skipped int
	// Failed is the number of records readable with neither key.
	Failed int
	// FailedIDs identifies the failed records.
	FailedIDs []string
}
