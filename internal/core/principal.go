// AngelaMos | 2026
// principal.go

package core

import (
	"fmt"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("parse role %q: %w", s, ErrInvalidInput)
	}
	return r, nil
}

// Principal is the caller identity rebuilt from a verified token on every
// request. It is never persisted.
type Principal struct {
	UserID   string
	TenantID string
	Role     Role
}

func (p Principal) IsZero() bool {
	return p.UserID == "" || p.TenantID == ""
}

// Authorize reports whether p holds one of the allowed roles. It makes no
// identity decision of its own; p must come from the authentication gate.
func Authorize(p Principal, allowed ...Role) error {
	if p.IsZero() {
		return fmt.Errorf("authorize: %w", ErrUnauthorized)
	}

	for _, r := range allowed {
		if p.Role == r {
			return nil
		}
	}

	return fmt.Errorf("authorize: role %q: %w", p.Role, ErrForbidden)
}
