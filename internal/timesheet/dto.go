package timesheet

import (
	"time"

	"github.com/frahmantamala/care-roster/internal"
)

type CreateTimesheetDTO struct {
	ClientID     int64     `json:"client_id"`
	ShiftID      *int64    `json:"shift_id,omitempty"`
	WorkDate     time.Time `json:"work_date"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	BreakMinutes int       `json:"break_minutes"`
	Notes        *string   `json:"notes,omitempty"`
	Status       string    `json:"status,omitempty"`
}

func (dto *CreateTimesheetDTO) Validate() error {
	// Seeding from a shift pulls client and window from the shift itself,
	// so those fields are only mandatory on a standalone create.
	if dto.ShiftID == nil {
		if dto.ClientID <= 0 {
			return internal.NewValidationFieldError("client_id", "client is required", internal.ErrCodeValidationFailed)
		}
		if dto.StartsAt.IsZero() || dto.EndsAt.IsZero() {
			return internal.NewValidationFieldError("starts_at", "start and end times are required", internal.ErrCodeValidationFailed)
		}
	}
	if !dto.StartsAt.IsZero() && !dto.EndsAt.IsZero() && !dto.EndsAt.After(dto.StartsAt) {
		return internal.ErrInvalidTimeRange
	}
	if dto.BreakMinutes < 0 || dto.BreakMinutes > MaxBreakMinutes {
		return internal.NewValidationFieldError("break_minutes", "break minutes must be between 0 and 600", internal.ErrCodeValidationFailed)
	}
	if dto.Status != "" && dto.Status != StatusDraft && dto.Status != StatusSubmitted {
		return internal.NewValidationFieldError("status", "status may only be draft or submitted on create", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateTimesheetDTO is the normal field-edit shape. Status may only move
// between draft and submitted here; approved and rejected are reachable
// solely through the decision shape below.
type UpdateTimesheetDTO struct {
	WorkDate     time.Time `json:"work_date"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	BreakMinutes int       `json:"break_minutes"`
	Notes        *string   `json:"notes,omitempty"`
	Status       string    `json:"status,omitempty"`
}

func (dto *UpdateTimesheetDTO) Validate() error {
	if dto.StartsAt.IsZero() || dto.EndsAt.IsZero() {
		return internal.NewValidationFieldError("starts_at", "start and end times are required", internal.ErrCodeValidationFailed)
	}
	if !dto.EndsAt.After(dto.StartsAt) {
		return internal.ErrInvalidTimeRange
	}
	if dto.BreakMinutes < 0 || dto.BreakMinutes > MaxBreakMinutes {
		return internal.NewValidationFieldError("break_minutes", "break minutes must be between 0 and 600", internal.ErrCodeValidationFailed)
	}
	if dto.Status != "" && dto.Status != StatusDraft && dto.Status != StatusSubmitted {
		return internal.NewValidationFieldError("status", "status may only be draft or submitted on update", internal.ErrCodeValidationFailed)
	}
	return nil
}

// DecisionDTO is the approve/reject request. Exactly one flag must be set
// and no field edits ride along with a decision.
type DecisionDTO struct {
	Approve bool `json:"approve"`
	Reject  bool `json:"reject"`
}

func (dto *DecisionDTO) Validate() error {
	if dto.Approve == dto.Reject {
		return internal.NewValidationFieldError("approve", "exactly one of approve or reject must be set", internal.ErrCodeValidationFailed)
	}
	return nil
}
