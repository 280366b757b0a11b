package shift

import (
	"time"

	"github.com/frahmantamala/care-roster/internal/rbac"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Shift is a scheduled block of support work: one staff member with one
// client over a time window. The window invariant (ends after starts) holds
// for every write, full or partial.
type Shift struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	UserID    int64     `json:"user_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Location  *string   `json:"location,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Status    string    `json:"status"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidStatus(s string) bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCancelled
}

// CalendarEvent is the calendar feed view of a shift, with names resolved
// so the frontend does not fan out per event.
type CalendarEvent struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"client_id"`
	ClientName string    `json:"client_name"`
	UserID     int64     `json:"user_id"`
	StaffName  string    `json:"staff_name"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Location   *string   `json:"location,omitempty"`
	Status     string    `json:"status"`
}

// EventFilter narrows a calendar window feed. StaffID and ClientID are only
// honored for users whose scope is global; a scoped user's feed is always
// their own shifts.
type EventFilter struct {
	From     time.Time
	To       time.Time
	StaffID  *int64
	ClientID *int64
}

// Repository defines the data access methods for shifts.
type Repository interface {
	Create(shift *Shift) error
	GetByID(id int64) (*Shift, error)
	Update(shift *Shift) error
	ListForDay(scope rbac.Scope, day time.Time) ([]*Shift, error)
	CalendarEvents(scope rbac.Scope, filter EventFilter) ([]*CalendarEvent, error)
}
