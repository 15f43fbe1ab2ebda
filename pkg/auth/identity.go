// Package auth issues and verifies JWTs, hashes passwords and manages the
// session cookies that carry tokens to browsers.
package auth

import "context"

// Roles, highest first.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleUser       = "user"
)

// Identity is the authenticated caller as seen by handlers and services.
type Identity struct {
	UserID uint
	Handle string
	Role   string
}

// IsStaff reports whether the caller may act on other users' orders.
func (id Identity) IsStaff() bool {
	switch id.Role {
	case RoleSuperadmin, RoleAdmin, RoleManager:
		return true
	}
	return false
}

type identityKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the Identity stored by the auth middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
