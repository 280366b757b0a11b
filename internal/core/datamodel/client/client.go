package client

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Client struct {
	ID        int64     `gorm:"primaryKey"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	Status    string    `gorm:"column:status;default:active"`
	UserID    *int64    `gorm:"column:user_id"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Client) TableName() string {
	return "clients"
}

// ClientUser links a support worker to a client they are assigned to serve.
type ClientUser struct {
	ID        int64     `gorm:"primaryKey"`
	ClientID  int64     `gorm:"column:client_id;not null;uniqueIndex:idx_client_user"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_client_user"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (ClientUser) TableName() string {
	return "client_user"
}
