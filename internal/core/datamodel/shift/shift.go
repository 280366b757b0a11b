package shift

import "time"

type Shift struct {
	ID        int64     `gorm:"primaryKey"`
	ClientID  int64     `gorm:"column:client_id;not null;index:idx_shifts_client_starts"`
	UserID    int64     `gorm:"column:user_id;not null;index:idx_shifts_user_starts"`
	StartsAt  time.Time `gorm:"column:starts_at;not null;index:idx_shifts_user_starts;index:idx_shifts_client_starts"`
	EndsAt    time.Time `gorm:"column:ends_at;not null"`
	Location  *string   `gorm:"column:location"`
	Notes     *string   `gorm:"column:notes"`
	Status    string    `gorm:"column:status;default:scheduled;index"`
	CreatedBy *int64    `gorm:"column:created_by"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Shift) TableName() string {
	return "shifts"
}
