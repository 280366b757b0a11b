package setting

import "time"

// AppSetting is the organisation-wide key/value store backing branding and
// terminology configuration. The authorization core never reads it.
type AppSetting struct {
	ID        int64     `gorm:"primaryKey"`
	Key       string    `gorm:"column:key;uniqueIndex;not null"`
	Value     string    `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
