package rbac

// Resource names a scoped listing surface.
type Resource string

const (
	ResourceShifts     Resource = "shifts"
	ResourceTimesheets Resource = "timesheets"
	ResourceClients    Resource = "clients"
)

// Scope is the visibility a user has over a resource listing: everything, or
// only rows owned by (assigned to) them. Repositories translate Owned into
// the owning-user predicate at the query boundary.
type Scope struct {
	Global bool
	UserID int64
}

func GlobalScope() Scope {
	return Scope{Global: true}
}

func OwnedBy(userID int64) Scope {
	return Scope{UserID: userID}
}

// ScopeFor is the single place the "who sees what" policy lives. Shifts and
// timesheets widen to Global only under the matching manageAny permission.
// Clients widen under clients.viewAny, except that support workers stay
// scoped to their assigned clients no matter what else they hold.
func ScopeFor(userID int64, perms []string, roles []string, resource Resource) Scope {
	switch resource {
	case ResourceShifts:
		if HasPermission(perms, PermShiftsManageAny) {
			return GlobalScope()
		}
	case ResourceTimesheets:
		if HasPermission(perms, PermTimesheetsManageAny) {
			return GlobalScope()
		}
	case ResourceClients:
		if HasPermission(perms, PermClientsViewAny) && !HasRole(roles, RoleSupportWorker) {
			return GlobalScope()
		}
	}
	return OwnedBy(userID)
}
