package shift

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/rbac"
)

// Service handles shift scheduling logic. Write access follows
// owner-or-manageAny: the assigned staff member can touch their own shifts,
// shifts.manageAny can touch anyone's.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateShift(user *internal.User, dto CreateShiftDTO) (*Shift, error) {
	if !user.HasPermission(rbac.PermShiftsCreate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = StatusScheduled
	}

	creator := user.ID
	sh := &Shift{
		ClientID:  dto.ClientID,
		UserID:    dto.UserID,
		StartsAt:  dto.StartsAt,
		EndsAt:    dto.EndsAt,
		Location:  dto.Location,
		Notes:     dto.Notes,
		Status:    status,
		CreatedBy: &creator,
	}

	if err := s.repo.Create(sh); err != nil {
		s.logger.Error("failed to create shift", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("shift created",
		"shift_id", sh.ID,
		"client_id", sh.ClientID,
		"staff_id", sh.UserID,
		"created_by", user.ID)
	return sh, nil
}

func (s *Service) GetShift(user *internal.User, id int64) (*Shift, error) {
	if !user.HasPermission(rbac.PermShiftsViewAny) {
		return nil, internal.ErrForbidden
	}

	sh, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	scope := rbac.ScopeFor(user.ID, user.Permissions, user.Roles, rbac.ResourceShifts)
	if !scope.Global && sh.UserID != user.ID {
		return nil, internal.ErrShiftNotFound
	}
	return sh, nil
}

// UpdateShift replaces all mutable shift fields. Requires shifts.update and
// the caller must be the assigned staff member unless they hold manageAny.
func (s *Service) UpdateShift(user *internal.User, id int64, dto UpdateShiftDTO) (*Shift, error) {
	if !user.HasPermission(rbac.PermShiftsUpdate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sh, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkWriteAccess(user, sh); err != nil {
		return nil, err
	}

	sh.ClientID = dto.ClientID
	sh.UserID = dto.UserID
	sh.StartsAt = dto.StartsAt
	sh.EndsAt = dto.EndsAt
	sh.Location = dto.Location
	sh.Notes = dto.Notes
	if dto.Status != "" {
		sh.Status = dto.Status
	}

	if err := s.repo.Update(sh); err != nil {
		s.logger.Error("failed to update shift", "error", err, "shift_id", id)
		return nil, err
	}
	return sh, nil
}

// PartialUpdateShift applies a sparse update, as sent by calendar drag and
// resize. The time window is validated against the merged result: moving
// just one bound past the other fails even though the request itself only
// carried valid values.
func (s *Service) PartialUpdateShift(user *internal.User, id int64, dto PartialUpdateShiftDTO) (*Shift, error) {
	if !user.HasPermission(rbac.PermShiftsUpdate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sh, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkWriteAccess(user, sh); err != nil {
		return nil, err
	}

	if dto.ClientID != nil {
		sh.ClientID = *dto.ClientID
	}
	if dto.UserID != nil {
		sh.UserID = *dto.UserID
	}
	if dto.StartsAt != nil {
		sh.StartsAt = *dto.StartsAt
		sh.EndsAt = *dto.EndsAt
	}
	if dto.Location != nil {
		sh.Location = dto.Location
	}
	if dto.Notes != nil {
		sh.Notes = dto.Notes
	}
	if dto.Status != nil {
		sh.Status = *dto.Status
	}

	if !sh.EndsAt.After(sh.StartsAt) {
		return nil, internal.ErrInvalidTimeRange
	}

	if err := s.repo.Update(sh); err != nil {
		s.logger.Error("failed to partially update shift", "error", err, "shift_id", id)
		return nil, err
	}
	return sh, nil
}

// ListForDay returns the shifts overlapping the given calendar day, scoped
// to the caller unless they hold manageAny.
func (s *Service) ListForDay(user *internal.User, day time.Time) ([]*Shift, error) {
	if !user.HasPermission(rbac.PermShiftsViewAny) {
		return nil, internal.ErrForbidden
	}

	scope := rbac.ScopeFor(user.ID, user.Permissions, user.Roles, rbac.ResourceShifts)

	shifts, err := s.repo.ListForDay(scope, day)
	if err != nil {
		s.logger.Error("failed to list shifts", "error", err, "user_id", user.ID)
		return nil, err
	}
	return shifts, nil
}

// CalendarEvents serves the [from,to) window feed. The staff_id and
// client_id filters only narrow a global view; a scoped user gets their own
// shifts regardless of what filters the request carries.
func (s *Service) CalendarEvents(user *internal.User, filter EventFilter) ([]*CalendarEvent, error) {
	if !user.HasPermission(rbac.PermCalendarViewAny) {
		return nil, internal.ErrForbidden
	}
	if filter.From.IsZero() || filter.To.IsZero() || !filter.To.After(filter.From) {
		return nil, internal.ErrInvalidTimeRange
	}

	scope := rbac.ScopeFor(user.ID, user.Permissions, user.Roles, rbac.ResourceShifts)
	if !scope.Global {
		filter.StaffID = nil
		filter.ClientID = nil
	}

	events, err := s.repo.CalendarEvents(scope, filter)
	if err != nil {
		s.logger.Error("failed to build calendar feed", "error", err, "user_id", user.ID)
		return nil, err
	}
	return events, nil
}

func (s *Service) checkWriteAccess(user *internal.User, sh *Shift) error {
	if user.HasPermission(rbac.PermShiftsManageAny) {
		return nil
	}
	if sh.UserID != user.ID {
		s.logger.Warn("shift write denied: not the assigned staff member",
			"shift_id", sh.ID,
			"shift_user_id", sh.UserID,
			"user_id", user.ID)
		return internal.ErrNotRecordOwner
	}
	return nil
}
