package timesheet

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/rbac"
	"github.com/frahmantamala/care-roster/internal/shift"
)

// ShiftSource lets timesheet creation seed from a scheduled shift without
// owning the shift storage.
type ShiftSource interface {
	GetByID(id int64) (*shift.Shift, error)
}

// Service handles the timesheet workflow: draft and submitted records are
// editable by their owner, approved records are frozen, and the
// approve/reject decision is a separate request shape with its own
// permission.
type Service struct {
	repo   Repository
	shifts ShiftSource
	logger *slog.Logger
}

func NewService(repo Repository, shifts ShiftSource, logger *slog.Logger) *Service {
	return &Service{repo: repo, shifts: shifts, logger: logger}
}

// CreateTimesheet records worked hours. When seeded from a shift the owner
// is the shift's staff member, and the caller must be that person unless
// they hold manageAny.
func (s *Service) CreateTimesheet(user *internal.User, dto CreateTimesheetDTO) (*Timesheet, error) {
	if !user.HasPermission(rbac.PermTimesheetsCreate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ownerID := user.ID
	clientID := dto.ClientID
	startsAt := dto.StartsAt
	endsAt := dto.EndsAt
	workDate := dto.WorkDate

	if dto.ShiftID != nil {
		sh, err := s.shifts.GetByID(*dto.ShiftID)
		if err != nil {
			return nil, err
		}

		ownerID = sh.UserID
		if ownerID != user.ID && !user.HasPermission(rbac.PermTimesheetsManageAny) {
			s.logger.Warn("timesheet create denied: shift belongs to someone else",
				"shift_id", sh.ID,
				"shift_user_id", sh.UserID,
				"user_id", user.ID)
			return nil, internal.ErrNotRecordOwner
		}

		clientID = sh.ClientID
		if startsAt.IsZero() {
			startsAt = sh.StartsAt
		}
		if endsAt.IsZero() {
			endsAt = sh.EndsAt
		}
		if !endsAt.After(startsAt) {
			return nil, internal.ErrInvalidTimeRange
		}
	}

	if workDate.IsZero() {
		workDate = startsAt.Truncate(24 * time.Hour)
	}

	status := dto.Status
	if status == "" {
		status = StatusDraft
	}

	creator := user.ID
	ts := &Timesheet{
		UserID:       ownerID,
		ClientID:     clientID,
		ShiftID:      dto.ShiftID,
		WorkDate:     workDate,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		BreakMinutes: dto.BreakMinutes,
		Notes:        dto.Notes,
		Status:       status,
		CreatedBy:    &creator,
	}

	if err := s.repo.Create(ts); err != nil {
		s.logger.Error("failed to create timesheet", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("timesheet created",
		"timesheet_id", ts.ID,
		"owner_id", ownerID,
		"created_by", user.ID)
	return ts, nil
}

func (s *Service) GetTimesheet(user *internal.User, id int64) (*Timesheet, error) {
	if !user.HasPermission(rbac.PermTimesheetsViewAny) {
		return nil, internal.ErrForbidden
	}

	ts, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	scope := rbac.ScopeFor(user.ID, user.Permissions, user.Roles, rbac.ResourceTimesheets)
	if !scope.Global && ts.UserID != user.ID {
		return nil, internal.ErrTimesheetNotFound
	}
	return ts, nil
}

// UpdateTimesheet is the normal field-edit path. It never produces an
// approved or rejected status, and an already-approved record refuses the
// edit unless the caller holds manageAny.
func (s *Service) UpdateTimesheet(user *internal.User, id int64, dto UpdateTimesheetDTO) (*Timesheet, error) {
	if !user.HasPermission(rbac.PermTimesheetsUpdate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ts, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	manageAny := user.HasPermission(rbac.PermTimesheetsManageAny)
	if ts.UserID != user.ID && !manageAny {
		return nil, internal.ErrNotRecordOwner
	}
	if ts.IsApproved() && !manageAny {
		s.logger.Warn("edit of approved timesheet refused", "timesheet_id", id, "user_id", user.ID)
		return nil, internal.ErrTimesheetLocked
	}

	ts.WorkDate = dto.WorkDate
	ts.StartsAt = dto.StartsAt
	ts.EndsAt = dto.EndsAt
	ts.BreakMinutes = dto.BreakMinutes
	ts.Notes = dto.Notes
	if dto.Status != "" && !ts.IsApproved() {
		ts.Status = dto.Status
	}

	if err := s.repo.Update(ts); err != nil {
		s.logger.Error("failed to update timesheet", "error", err, "timesheet_id", id)
		return nil, err
	}
	return ts, nil
}

// Decide applies an approve or reject decision. Requires timesheets.approve
// or manageAny; a caller without either leaves the record untouched.
func (s *Service) Decide(user *internal.User, id int64, dto DecisionDTO) (*Timesheet, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if !user.HasAnyPermission(rbac.PermTimesheetsApprove, rbac.PermTimesheetsManageAny) {
		s.logger.Warn("timesheet decision denied", "timesheet_id", id, "user_id", user.ID)
		return nil, internal.ErrApprovalRequired
	}

	ts, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	approver := user.ID
	if dto.Approve {
		ts.Status = StatusApproved
	} else {
		ts.Status = StatusRejected
	}
	ts.ApprovedBy = &approver
	ts.ApprovedAt = &now

	if err := s.repo.Update(ts); err != nil {
		s.logger.Error("failed to record timesheet decision", "error", err, "timesheet_id", id)
		return nil, err
	}

	s.logger.Info("timesheet decision recorded",
		"timesheet_id", id,
		"status", ts.Status,
		"decided_by", user.ID)
	return ts, nil
}

// ListTimesheets returns timesheets under the caller's scope with the
// additive filters applied.
func (s *Service) ListTimesheets(user *internal.User, filter ListFilter) ([]*Timesheet, error) {
	if !user.HasPermission(rbac.PermTimesheetsViewAny) {
		return nil, internal.ErrForbidden
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	scope := rbac.ScopeFor(user.ID, user.Permissions, user.Roles, rbac.ResourceTimesheets)

	timesheets, err := s.repo.List(scope, filter)
	if err != nil {
		s.logger.Error("failed to list timesheets", "error", err, "user_id", user.ID)
		return nil, err
	}
	return timesheets, nil
}
