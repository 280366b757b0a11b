package shift

import (
	"time"

	"github.com/frahmantamala/care-roster/internal"
)

type CreateShiftDTO struct {
	ClientID int64     `json:"client_id"`
	UserID   int64     `json:"user_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Location *string   `json:"location,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
	Status   string    `json:"status,omitempty"`
}

func (dto *CreateShiftDTO) Validate() error {
	if dto.ClientID <= 0 {
		return internal.NewValidationFieldError("client_id", "client is required", internal.ErrCodeValidationFailed)
	}
	if dto.UserID <= 0 {
		return internal.NewValidationFieldError("user_id", "staff member is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartsAt.IsZero() || dto.EndsAt.IsZero() {
		return internal.NewValidationFieldError("starts_at", "start and end times are required", internal.ErrCodeValidationFailed)
	}
	if !dto.EndsAt.After(dto.StartsAt) {
		return internal.ErrInvalidTimeRange
	}
	if dto.Status != "" && !ValidStatus(dto.Status) {
		return internal.NewValidationFieldError("status", "status must be scheduled, completed or cancelled", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateShiftDTO struct {
	ClientID int64     `json:"client_id"`
	UserID   int64     `json:"user_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Location *string   `json:"location,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
	Status   string    `json:"status"`
}

func (dto *UpdateShiftDTO) Validate() error {
	if dto.ClientID <= 0 {
		return internal.NewValidationFieldError("client_id", "client is required", internal.ErrCodeValidationFailed)
	}
	if dto.UserID <= 0 {
		return internal.NewValidationFieldError("user_id", "staff member is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartsAt.IsZero() || dto.EndsAt.IsZero() {
		return internal.NewValidationFieldError("starts_at", "start and end times are required", internal.ErrCodeValidationFailed)
	}
	if !dto.EndsAt.After(dto.StartsAt) {
		return internal.ErrInvalidTimeRange
	}
	if dto.Status != "" && !ValidStatus(dto.Status) {
		return internal.NewValidationFieldError("status", "status must be scheduled, completed or cancelled", internal.ErrCodeValidationFailed)
	}
	return nil
}

// PartialUpdateShiftDTO is the sparse shape calendar drag and resize send.
// Nil means "leave alone". Start and end times may only arrive as a pair;
// a lone bound is rejected outright rather than partially applied.
type PartialUpdateShiftDTO struct {
	ClientID *int64     `json:"client_id,omitempty"`
	UserID   *int64     `json:"user_id,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Location *string    `json:"location,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
	Status   *string    `json:"status,omitempty"`
}

func (dto *PartialUpdateShiftDTO) Validate() error {
	if (dto.StartsAt == nil) != (dto.EndsAt == nil) {
		return internal.ErrIncompleteTime
	}
	if dto.ClientID != nil && *dto.ClientID <= 0 {
		return internal.NewValidationFieldError("client_id", "client is required", internal.ErrCodeValidationFailed)
	}
	if dto.UserID != nil && *dto.UserID <= 0 {
		return internal.NewValidationFieldError("user_id", "staff member is required", internal.ErrCodeValidationFailed)
	}
	if dto.Status != nil && !ValidStatus(*dto.Status) {
		return internal.NewValidationFieldError("status", "status must be scheduled, completed or cancelled", internal.ErrCodeValidationFailed)
	}
	return nil
}
