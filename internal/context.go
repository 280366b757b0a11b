package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// User is the authenticated principal attached to the request context by the
// auth middleware. Permissions is the effective set (role grants plus allow
// overrides minus deny overrides); Roles carries the role slugs for the few
// policies that are role-based rather than permission-based.
type User struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	LegacyRole  string     `json:"role,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	Roles       []string   `json:"roles,omitempty"`
	Permissions []string   `json:"permissions,omitempty"`
}

func (u *User) HasPermission(key string) bool {
	for _, p := range u.Permissions {
		if p == key {
			return true
		}
	}
	return false
}

func (u *User) HasAnyPermission(keys ...string) bool {
	for _, k := range keys {
		if u.HasPermission(k) {
			return true
		}
	}
	return false
}

func (u *User) HasRole(names ...string) bool {
	for _, held := range u.Roles {
		for _, n := range names {
			if held == n {
				return true
			}
		}
	}
	return false
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
