package rbac

import (
	"log/slog"
	"sort"
)

// Resolver answers the single question "may user X do action Y" with a strict
// precedence order: an explicit deny override always wins, then an explicit
// allow override, then role-derived grants. Anything else is a deny.
type Resolver struct {
	repo   Repository
	logger *slog.Logger
}

func NewResolver(repo Repository, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, logger: logger}
}

// Resolve decides whether the user may perform the action identified by key.
// Unknown keys resolve to deny without touching storage.
func (r *Resolver) Resolve(userID int64, key string) (bool, error) {
	if !InCatalog(key) {
		return false, nil
	}

	mode, err := r.repo.OverrideModeFor(userID, key)
	if err != nil {
		return false, err
	}

	switch mode {
	case OverrideDeny:
		return false, nil
	case OverrideAllow:
		return true, nil
	}

	return r.repo.RoleGrants(userID, key)
}

// EffectivePermissions materializes the full allowed key set for a user:
// role grants plus allow overrides, minus deny overrides. Used to stamp the
// request-context principal once per request instead of resolving key by key.
func (r *Resolver) EffectivePermissions(userID int64) ([]string, error) {
	roleKeys, err := r.repo.RolePermissionKeys(userID)
	if err != nil {
		return nil, err
	}

	overrides, err := r.repo.OverridesByKey(userID)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(roleKeys))
	for _, k := range roleKeys {
		if InCatalog(k) {
			allowed[k] = true
		}
	}
	for k, allow := range overrides {
		if !InCatalog(k) {
			continue
		}
		if allow {
			allowed[k] = true
		} else {
			delete(allowed, k)
		}
	}

	keys := make([]string, 0, len(allowed))
	for k := range allowed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// RoleNames returns the slugs of the roles the user holds.
func (r *Resolver) RoleNames(userID int64) ([]string, error) {
	return r.repo.RoleNames(userID)
}
