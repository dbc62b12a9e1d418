package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookstore/models"
)

var (
	// ErrUnauthenticated means the request carries no valid session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the session is valid but lacks the required role.
	ErrForbidden = errors.New("forbidden")
)

// Principal is the logged-in identity carried by the session cookie.
type Principal struct {
	UserID   int64
	Username string
	Role     string // "user" | "admin"
}

// IsAdmin reports whether the principal claims the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

type principalKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// UserLookup is the slice of the user repository the role check needs.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// RequireAdmin ensures the caller is an admin principal AND that the stored user
// still has role 'admin'. A token minted before a demotion is rejected.
func RequireAdmin(ctx context.Context, users UserLookup) (*Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	if users == nil {
		return nil, errors.New("users repository not configured")
	}
	u, err := users.GetByUsername(ctx, p.Name())
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || u.ID != p.UserID || strings.ToLower(strings.TrimSpace(u.Role)) != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return p, nil
}

// Name returns the username, empty for a nil principal.
func (p *Principal) Name() string {
	if p == nil {
		return ""
	}
	return p.Username
}
