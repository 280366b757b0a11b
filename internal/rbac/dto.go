package rbac

import (
	"github.com/frahmantamala/care-roster/internal"
)

// UpdateAccessDTO replaces a user's role set and adjusts overrides.
// Overrides maps permission ID to "inherit", "allow" or "deny"; inherit
// deletes the override row.
type UpdateAccessDTO struct {
	RoleIDs   []int64          `json:"role_ids"`
	Overrides map[int64]string `json:"overrides,omitempty"`
}

func (dto UpdateAccessDTO) Validate() error {
	for _, mode := range dto.Overrides {
		if _, err := ParseOverrideMode(mode); err != nil {
			return err
		}
	}
	return nil
}

// ApproveUserDTO approves a pending account. Approval must hand the user at
// least one role, otherwise the account stays effectively locked out.
type ApproveUserDTO struct {
	RoleIDs   []int64          `json:"role_ids"`
	Overrides map[int64]string `json:"overrides,omitempty"`
}

func (dto ApproveUserDTO) Validate() error {
	if len(dto.RoleIDs) == 0 {
		return internal.ErrRolesRequired
	}
	return UpdateAccessDTO{RoleIDs: dto.RoleIDs, Overrides: dto.Overrides}.Validate()
}

// AccessPage is the admin listing payload: every user with their access
// state, plus the role and permission catalogs for the edit form.
type AccessPage struct {
	Users       []*UserAccess `json:"users"`
	Roles       []Role        `json:"roles"`
	Permissions []Permission  `json:"permissions"`
}
