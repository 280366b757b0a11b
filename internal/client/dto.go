package client

import (
	"strings"

	"github.com/frahmantamala/care-roster/internal"
	clientDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/client"
)

type CreateClientDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Status    string `json:"status,omitempty"`
	UserID    *int64 `json:"user_id,omitempty"`
}

func (dto *CreateClientDTO) Validate() error {
	if strings.TrimSpace(dto.FirstName) == "" {
		return internal.NewValidationFieldError("first_name", "first name is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(dto.LastName) == "" {
		return internal.NewValidationFieldError("last_name", "last name is required", internal.ErrCodeValidationFailed)
	}
	if dto.Status == "" {
		dto.Status = clientDatamodel.StatusActive
	}
	if dto.Status != clientDatamodel.StatusActive && dto.Status != clientDatamodel.StatusInactive {
		return internal.NewValidationFieldError("status", "status must be active or inactive", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateClientDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Status    string `json:"status"`
	UserID    *int64 `json:"user_id,omitempty"`
}

func (dto *UpdateClientDTO) Validate() error {
	if strings.TrimSpace(dto.FirstName) == "" {
		return internal.NewValidationFieldError("first_name", "first name is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(dto.LastName) == "" {
		return internal.NewValidationFieldError("last_name", "last name is required", internal.ErrCodeValidationFailed)
	}
	if dto.Status != clientDatamodel.StatusActive && dto.Status != clientDatamodel.StatusInactive {
		return internal.NewValidationFieldError("status", "status must be active or inactive", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateAssignmentsDTO replaces the full set of support workers assigned to
// a client.
type UpdateAssignmentsDTO struct {
	UserIDs []int64 `json:"user_ids"`
}

func (dto *UpdateAssignmentsDTO) Validate() error {
	seen := make(map[int64]struct{}, len(dto.UserIDs))
	for _, id := range dto.UserIDs {
		if id <= 0 {
			return internal.NewValidationFieldError("user_ids", "user ids must be positive", internal.ErrCodeValidationFailed)
		}
		if _, dup := seen[id]; dup {
			return internal.NewValidationFieldError("user_ids", "duplicate user id in assignment set", internal.ErrCodeValidationFailed)
		}
		seen[id] = struct{}{}
	}
	return nil
}
