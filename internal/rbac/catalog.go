package rbac

// Permission keys. Dot-namespaced, resource.action; the *.manageAny suffix
// denotes cross-user authority over a resource as opposed to authority over
// one's own records.
const (
	PermStaffViewAny           = "staff.viewAny"
	PermStaffCreate            = "staff.create"
	PermStaffUpdate            = "staff.update"
	PermStaffInvite            = "staff.invite"
	PermStaffAssignmentsUpdate = "staff.assignments.update"

	PermCalendarViewAny  = "calendar.viewAny"
	PermReportsViewAny   = "reports.viewAny"
	PermRosteringViewAny = "rostering.viewAny"

	PermShiftsViewAny   = "shifts.viewAny"
	PermShiftsCreate    = "shifts.create"
	PermShiftsUpdate    = "shifts.update"
	PermShiftsManageAny = "shifts.manageAny"

	PermTimesheetsViewAny   = "timesheets.viewAny"
	PermTimesheetsCreate    = "timesheets.create"
	PermTimesheetsUpdate    = "timesheets.update"
	PermTimesheetsApprove   = "timesheets.approve"
	PermTimesheetsManageAny = "timesheets.manageAny"

	PermClientsViewAny           = "clients.viewAny"
	PermClientsCreate            = "clients.create"
	PermClientsUpdate            = "clients.update"
	PermClientsAssignmentsUpdate = "clients.assignments.update"

	PermSettingsAccessManage      = "settings.access.manage"
	PermSettingsTerminologyManage = "settings.terminology.manage"
	PermSettingsBrandingManage    = "settings.branding.manage"
)

// Built-in role slugs.
const (
	RoleAdmin           = "admin"
	RoleProviderManager = "provider_manager"
	RoleSupportWorker   = "support_worker"
)

// PermissionDescription maps every catalogued key to its human description.
// Keys not present here do not exist: resolving one is always a deny.
var PermissionDescriptions = map[string]string{
	PermStaffViewAny:           "View staff",
	PermStaffCreate:            "Create staff",
	PermStaffUpdate:            "Update staff",
	PermStaffInvite:            "Invite staff",
	PermStaffAssignmentsUpdate: "Assign clients to staff",

	PermCalendarViewAny:  "View calendar",
	PermReportsViewAny:   "View reports",
	PermRosteringViewAny: "View rostering",

	PermShiftsViewAny:   "View shifts",
	PermShiftsCreate:    "Create shifts",
	PermShiftsUpdate:    "Update shifts",
	PermShiftsManageAny: "Manage any staff shifts",

	PermTimesheetsViewAny:   "View timesheets",
	PermTimesheetsCreate:    "Create timesheets",
	PermTimesheetsUpdate:    "Update timesheets",
	PermTimesheetsApprove:   "Approve/reject timesheets",
	PermTimesheetsManageAny: "Manage any staff timesheets",

	PermClientsViewAny:           "View clients",
	PermClientsCreate:            "Create clients",
	PermClientsUpdate:            "Update clients",
	PermClientsAssignmentsUpdate: "Manage client assignments",

	PermSettingsAccessManage:      "Manage user access (roles & overrides)",
	PermSettingsTerminologyManage: "Manage UI terminology (labels)",
	PermSettingsBrandingManage:    "Manage organisation branding (colors, logo)",
}

// RoleLabels maps built-in role slugs to display labels.
var RoleLabels = map[string]string{
	RoleAdmin:           "Administrator",
	RoleProviderManager: "Provider Manager",
	RoleSupportWorker:   "Support Worker",
}

// DefaultRolePermissions drives the seeder. The admin role gets the full
// catalog; it is materialized in AdminPermissionKeys below rather than
// duplicated here.
var DefaultRolePermissions = map[string][]string{
	RoleProviderManager: {
		PermStaffViewAny,
		PermStaffCreate,
		PermStaffUpdate,
		PermStaffInvite,
		PermStaffAssignmentsUpdate,

		PermCalendarViewAny,
		PermReportsViewAny,
		PermRosteringViewAny,

		PermShiftsViewAny,
		PermShiftsCreate,
		PermShiftsUpdate,
		PermShiftsManageAny,

		PermTimesheetsViewAny,
		PermTimesheetsCreate,
		PermTimesheetsUpdate,
		PermTimesheetsApprove,
		PermTimesheetsManageAny,

		PermClientsViewAny,
		PermClientsCreate,
		PermClientsUpdate,
		PermClientsAssignmentsUpdate,

		PermSettingsTerminologyManage,
	},
	RoleSupportWorker: {
		PermClientsViewAny,
		PermShiftsViewAny,
		PermTimesheetsViewAny,
		PermTimesheetsCreate,
		PermTimesheetsUpdate,
	},
}

// AdminPermissionKeys returns every catalogued permission key, sorted by
// nothing in particular (map iteration); the seeder attaches all of them to
// the admin role.
func AdminPermissionKeys() []string {
	keys := make([]string, 0, len(PermissionDescriptions))
	for k := range PermissionDescriptions {
		keys = append(keys, k)
	}
	return keys
}

// InCatalog reports whether key is a known permission key.
func InCatalog(key string) bool {
	_, ok := PermissionDescriptions[key]
	return ok
}
