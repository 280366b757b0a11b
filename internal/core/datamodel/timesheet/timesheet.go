package timesheet

import "time"

type Timesheet struct {
	ID           int64      `gorm:"primaryKey"`
	UserID       int64      `gorm:"column:user_id;not null;index:idx_timesheets_user_date"`
	ClientID     int64      `gorm:"column:client_id;not null;index:idx_timesheets_client_date"`
	ShiftID      *int64     `gorm:"column:shift_id"`
	WorkDate     time.Time  `gorm:"column:work_date;type:date;not null;index:idx_timesheets_user_date;index:idx_timesheets_client_date"`
	StartsAt     time.Time  `gorm:"column:starts_at;not null"`
	EndsAt       time.Time  `gorm:"column:ends_at;not null"`
	BreakMinutes int        `gorm:"column:break_minutes;default:0"`
	Notes        *string    `gorm:"column:notes"`
	Status       string     `gorm:"column:status;default:draft;index"`
	CreatedBy    *int64     `gorm:"column:created_by"`
	ApprovedBy   *int64     `gorm:"column:approved_by"`
	ApprovedAt   *time.Time `gorm:"column:approved_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}
