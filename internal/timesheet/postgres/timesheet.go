package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	internal "github.com/frahmantamala/care-roster/internal"
	timesheetDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/care-roster/internal/rbac"
	"github.com/frahmantamala/care-roster/internal/timesheet"
)

type TimesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) *TimesheetRepository {
	return &TimesheetRepository{db: db}
}

func (r *TimesheetRepository) Create(ts *timesheet.Timesheet) error {
	row := toRow(ts)
	if err := r.db.Create(row).Error; err != nil {
		return fmt.Errorf("create timesheet: %w", err)
	}
	ts.ID = row.ID
	ts.CreatedAt = row.CreatedAt
	ts.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *TimesheetRepository) GetByID(id int64) (*timesheet.Timesheet, error) {
	var row timesheetDatamodel.Timesheet
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTimesheetNotFound
		}
		return nil, fmt.Errorf("get timesheet: %w", err)
	}
	return fromRow(&row), nil
}

func (r *TimesheetRepository) Update(ts *timesheet.Timesheet) error {
	updates := map[string]interface{}{
		"work_date":     ts.WorkDate,
		"starts_at":     ts.StartsAt,
		"ends_at":       ts.EndsAt,
		"break_minutes": ts.BreakMinutes,
		"notes":         ts.Notes,
		"status":        ts.Status,
		"approved_by":   ts.ApprovedBy,
		"approved_at":   ts.ApprovedAt,
		"updated_at":    time.Now(),
	}
	result := r.db.Model(&timesheetDatamodel.Timesheet{}).Where("id = ?", ts.ID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update timesheet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return internal.ErrTimesheetNotFound
	}
	return nil
}

func (r *TimesheetRepository) List(scope rbac.Scope, filter timesheet.ListFilter) ([]*timesheet.Timesheet, error) {
	var rows []timesheetDatamodel.Timesheet

	q := r.db.Model(&timesheetDatamodel.Timesheet{})
	if !scope.Global {
		q = q.Where("user_id = ?", scope.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		q = q.Where("work_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("work_date <= ?", *filter.DateTo)
	}

	err := q.Order("work_date DESC, starts_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}

	timesheets := make([]*timesheet.Timesheet, len(rows))
	for i := range rows {
		timesheets[i] = fromRow(&rows[i])
	}
	return timesheets, nil
}

func toRow(ts *timesheet.Timesheet) *timesheetDatamodel.Timesheet {
	return &timesheetDatamodel.Timesheet{
		ID:           ts.ID,
		UserID:       ts.UserID,
		ClientID:     ts.ClientID,
		ShiftID:      ts.ShiftID,
		WorkDate:     ts.WorkDate,
		StartsAt:     ts.StartsAt,
		EndsAt:       ts.EndsAt,
		BreakMinutes: ts.BreakMinutes,
		Notes:        ts.Notes,
		Status:       ts.Status,
		CreatedBy:    ts.CreatedBy,
		ApprovedBy:   ts.ApprovedBy,
		ApprovedAt:   ts.ApprovedAt,
	}
}

func fromRow(row *timesheetDatamodel.Timesheet) *timesheet.Timesheet {
	return &timesheet.Timesheet{
		ID:           row.ID,
		UserID:       row.UserID,
		ClientID:     row.ClientID,
		ShiftID:      row.ShiftID,
		WorkDate:     row.WorkDate,
		StartsAt:     row.StartsAt,
		EndsAt:       row.EndsAt,
		BreakMinutes: row.BreakMinutes,
		Notes:        row.Notes,
		Status:       row.Status,
		CreatedBy:    row.CreatedBy,
		ApprovedBy:   row.ApprovedBy,
		ApprovedAt:   row.ApprovedAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
