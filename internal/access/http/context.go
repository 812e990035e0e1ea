// Package http provides the principal, privilege and rate limit middleware
// that gate every secret endpoint.
package http

import (
	"context"
)

type principalKey struct{}

type privilegedKey struct{}

// WithPrincipal stores the verified principal identity in the context.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the principal identity from the context.
func GetPrincipal(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(principalKey{}).(string)
	return principal, ok && principal != ""
}

// WithPrivileged records the result of the privilege lookup.
func WithPrivileged(ctx context.Context, privileged bool) context.Context {
	return context.WithValue(ctx, privilegedKey{}, privileged)
}

// IsPrivileged reports whether PrivilegeMiddleware already confirmed the
// admin capability for this request.
func IsPrivileged(ctx context.Context) bool {
	privileged, _ := ctx.Value(privilegedKey{}).(bool)
	return privileged
}
