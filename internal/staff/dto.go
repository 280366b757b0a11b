package staff

import (
	"strings"

	"github.com/frahmantamala/care-roster/internal"
)

// InviteStaffDTO creates a staff account ahead of the person's first login.
// Invited accounts start unapproved; the access screen approves them once
// roles are assigned.
type InviteStaffDTO struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	RoleIDs []int64 `json:"role_ids,omitempty"`
}

func (dto *InviteStaffDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if !strings.Contains(dto.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateAssignmentsDTO replaces the full set of clients a staff member is
// assigned to serve, the staff-side mirror of the client assignment screen.
type UpdateAssignmentsDTO struct {
	ClientIDs []int64 `json:"client_ids"`
}

func (dto *UpdateAssignmentsDTO) Validate() error {
	seen := make(map[int64]struct{}, len(dto.ClientIDs))
	for _, id := range dto.ClientIDs {
		if id <= 0 {
			return internal.NewValidationFieldError("client_ids", "client ids must be positive", internal.ErrCodeValidationFailed)
		}
		if _, dup := seen[id]; dup {
			return internal.NewValidationFieldError("client_ids", "duplicate client id in assignment set", internal.ErrCodeValidationFailed)
		}
		seen[id] = struct{}{}
	}
	return nil
}

type UpdateStaffDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (dto *UpdateStaffDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if !strings.Contains(dto.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
