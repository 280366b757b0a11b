package rbac

import (
	"time"

	"github.com/frahmantamala/care-roster/internal"
)

// OverrideMode is the tri-state value of a per-user permission override.
// Inherit means "no row": the user falls through to their role grants.
type OverrideMode string

const (
	OverrideInherit OverrideMode = "inherit"
	OverrideAllow   OverrideMode = "allow"
	OverrideDeny    OverrideMode = "deny"
)

func ParseOverrideMode(s string) (OverrideMode, error) {
	switch OverrideMode(s) {
	case OverrideInherit, OverrideAllow, OverrideDeny:
		return OverrideMode(s), nil
	}
	return "", internal.NewValidationError("override mode must be inherit, allow or deny", internal.ErrCodeValidationFailed)
}

type Role struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type Permission struct {
	ID          int64  `json:"id"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

// UserAccess is the admin view of one user's access state: held roles plus
// any overrides keyed by permission ID.
type UserAccess struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	LegacyRole string         `json:"role,omitempty"`
	ApprovedAt *time.Time     `json:"approved_at,omitempty"`
	Roles      []Role         `json:"roles"`
	Overrides  map[int64]bool `json:"overrides"`
}

// Repository is the persistence contract for permission resolution and
// access management. Implementations must guarantee at most one override row
// per (user, permission) pair and that ReplaceRoles swaps the whole role set
// in a single transaction.
type Repository interface {
	// Resolution reads.
	OverrideModeFor(userID int64, key string) (OverrideMode, error)
	RoleGrants(userID int64, key string) (bool, error)
	RolePermissionKeys(userID int64) ([]string, error)
	OverridesByKey(userID int64) (map[string]bool, error)
	RoleNames(userID int64) ([]string, error)

	// Access management.
	GetUserAccess(userID int64) (*UserAccess, error)
	ListUserAccess() ([]*UserAccess, error)
	ListRoles() ([]Role, error)
	ListPermissions() ([]Permission, error)
	RolesByID(roleIDs []int64) ([]Role, error)
	ReplaceRoles(userID int64, roleIDs []int64, legacyRole string) error
	SetOverride(userID, permissionID int64, allowed bool) error
	ClearOverride(userID, permissionID int64) error
	MarkApproved(userID, approverID int64, at time.Time) error
}

// HasPermission reports whether key is in an effective permission set.
func HasPermission(perms []string, key string) bool {
	for _, p := range perms {
		if p == key {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether any of keys is in perms.
func HasAnyPermission(perms []string, keys ...string) bool {
	for _, k := range keys {
		if HasPermission(perms, k) {
			return true
		}
	}
	return false
}

// HasRole reports whether name is among held role slugs.
func HasRole(roles []string, name string) bool {
	for _, r := range roles {
		if r == name {
			return true
		}
	}
	return false
}
