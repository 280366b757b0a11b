package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	internal "github.com/frahmantamala/care-roster/internal"
	shiftDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/shift"
	"github.com/frahmantamala/care-roster/internal/rbac"
	"github.com/frahmantamala/care-roster/internal/shift"
)

type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(sh *shift.Shift) error {
	row := toRow(sh)
	if err := r.db.Create(row).Error; err != nil {
		return fmt.Errorf("create shift: %w", err)
	}
	sh.ID = row.ID
	sh.CreatedAt = row.CreatedAt
	sh.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ShiftRepository) GetByID(id int64) (*shift.Shift, error) {
	var row shiftDatamodel.Shift
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrShiftNotFound
		}
		return nil, fmt.Errorf("get shift: %w", err)
	}
	return fromRow(&row), nil
}

func (r *ShiftRepository) Update(sh *shift.Shift) error {
	updates := map[string]interface{}{
		"client_id":  sh.ClientID,
		"user_id":    sh.UserID,
		"starts_at":  sh.StartsAt,
		"ends_at":    sh.EndsAt,
		"location":   sh.Location,
		"notes":      sh.Notes,
		"status":     sh.Status,
		"updated_at": time.Now(),
	}
	result := r.db.Model(&shiftDatamodel.Shift{}).Where("id = ?", sh.ID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update shift: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return internal.ErrShiftNotFound
	}
	return nil
}

// ListForDay returns shifts overlapping the calendar day that contains the
// given time, in the day's own location.
func (r *ShiftRepository) ListForDay(scope rbac.Scope, day time.Time) ([]*shift.Shift, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var rows []shiftDatamodel.Shift

	q := r.db.Where("starts_at < ? AND ends_at > ?", dayEnd, dayStart)
	if !scope.Global {
		q = q.Where("user_id = ?", scope.UserID)
	}

	if err := q.Order("starts_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list shifts for day: %w", err)
	}

	shifts := make([]*shift.Shift, len(rows))
	for i := range rows {
		shifts[i] = fromRow(&rows[i])
	}
	return shifts, nil
}

// CalendarEvents joins client and staff names so the feed is one query.
func (r *ShiftRepository) CalendarEvents(scope rbac.Scope, filter shift.EventFilter) ([]*shift.CalendarEvent, error) {
	query := `
		SELECT s.id, s.client_id,
		       c.first_name || ' ' || c.last_name AS client_name,
		       s.user_id, u.name AS staff_name,
		       s.starts_at, s.ends_at, s.location, s.status
		FROM shifts s
		JOIN clients c ON c.id = s.client_id
		JOIN users u ON u.id = s.user_id
		WHERE s.starts_at < ? AND s.ends_at > ?`
	args := []interface{}{filter.To, filter.From}

	if !scope.Global {
		query += " AND s.user_id = ?"
		args = append(args, scope.UserID)
	} else {
		if filter.StaffID != nil {
			query += " AND s.user_id = ?"
			args = append(args, *filter.StaffID)
		}
		if filter.ClientID != nil {
			query += " AND s.client_id = ?"
			args = append(args, *filter.ClientID)
		}
	}

	query += " ORDER BY s.starts_at"

	var events []*shift.CalendarEvent
	if err := r.db.Raw(query, args...).Scan(&events).Error; err != nil {
		return nil, fmt.Errorf("calendar events: %w", err)
	}
	return events, nil
}

func toRow(sh *shift.Shift) *shiftDatamodel.Shift {
	return &shiftDatamodel.Shift{
		ID:        sh.ID,
		ClientID:  sh.ClientID,
		UserID:    sh.UserID,
		StartsAt:  sh.StartsAt,
		EndsAt:    sh.EndsAt,
		Location:  sh.Location,
		Notes:     sh.Notes,
		Status:    sh.Status,
		CreatedBy: sh.CreatedBy,
	}
}

func fromRow(row *shiftDatamodel.Shift) *shift.Shift {
	return &shift.Shift{
		ID:        row.ID,
		ClientID:  row.ClientID,
		UserID:    row.UserID,
		StartsAt:  row.StartsAt,
		EndsAt:    row.EndsAt,
		Location:  row.Location,
		Notes:     row.Notes,
		Status:    row.Status,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
