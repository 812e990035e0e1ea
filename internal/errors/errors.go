// Package errors holds the sentinel errors shared by every secretgate module.
// Use cases wrap them with context and the HTTP layer maps them onto status
// codes, so a handler never needs to know which store produced a failure.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a secret, admin or audit entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with an existing record.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput is returned for requests that fail validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when no verified principal is attached.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the principal lacks the required privilege.
	ErrForbidden = errors.New("forbidden")

	// ErrTimeout is returned when a record store misses its deadline.
	ErrTimeout = errors.New("timeout")
)

// New returns a module specific error that matches no shared sentinel.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message and keeps it matchable with Is.
// A nil err stays nil so call sites can wrap unconditionally.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether err or anything it wraps is target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
