package timesheet

import (
	"time"

	"github.com/frahmantamala/care-roster/internal/rbac"
)

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// MaxBreakMinutes caps a break at ten hours; a longer break than that is a
// data-entry mistake, not a shift.
const MaxBreakMinutes = 600

// Timesheet records the hours a support worker actually delivered, as
// opposed to the shift they were scheduled for. Approved records are frozen
// for everyone below manageAny.
type Timesheet struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	ClientID     int64      `json:"client_id"`
	ShiftID      *int64     `json:"shift_id,omitempty"`
	WorkDate     time.Time  `json:"work_date"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       time.Time  `json:"ends_at"`
	BreakMinutes int        `json:"break_minutes"`
	Notes        *string    `json:"notes,omitempty"`
	Status       string     `json:"status"`
	CreatedBy    *int64     `json:"created_by,omitempty"`
	ApprovedBy   *int64     `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (t *Timesheet) IsApproved() bool {
	return t.Status == StatusApproved
}

// WorkedMinutes is the paid duration: window length minus the break.
func (t *Timesheet) WorkedMinutes() int {
	mins := int(t.EndsAt.Sub(t.StartsAt).Minutes()) - t.BreakMinutes
	if mins < 0 {
		return 0
	}
	return mins
}

// ListFilter narrows a timesheet listing. All fields are additive on top of
// the caller's scope; a scoped user filtering by someone else's rows just
// gets an empty list.
type ListFilter struct {
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// Repository defines the data access methods for timesheets.
type Repository interface {
	Create(ts *Timesheet) error
	GetByID(id int64) (*Timesheet, error)
	Update(ts *Timesheet) error
	List(scope rbac.Scope, filter ListFilter) ([]*Timesheet, error)
}
