package user

import "time"

type User struct {
	ID           int64      `gorm:"primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	LegacyRole   string     `gorm:"column:role"`
	ApprovedAt   *time.Time `gorm:"column:approved_at;index"`
	ApprovedBy   *int64     `gorm:"column:approved_by"`
	CreatedAt    time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

type Role struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Label     string    `gorm:"column:label;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Key         string    `gorm:"column:key;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Permission) TableName() string {
	return "permissions"
}

type RoleUser struct {
	ID     int64 `gorm:"primaryKey"`
	RoleID int64 `gorm:"column:role_id;not null;uniqueIndex:idx_role_user"`
	UserID int64 `gorm:"column:user_id;not null;uniqueIndex:idx_role_user"`
}

func (RoleUser) TableName() string {
	return "role_user"
}

type RolePermission struct {
	ID           int64 `gorm:"primaryKey"`
	RoleID       int64 `gorm:"column:role_id;not null;uniqueIndex:idx_role_permission"`
	PermissionID int64 `gorm:"column:permission_id;not null;uniqueIndex:idx_role_permission"`
}

func (RolePermission) TableName() string {
	return "role_permission"
}

// PermissionOverride is the per-user allow/deny row. Row absent means the
// user inherits from their roles; the unique pair index keeps it a
// replace-in-place structure rather than an append log.
type PermissionOverride struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:idx_permission_user"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_permission_user"`
	Allowed      bool      `gorm:"column:allowed;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (PermissionOverride) TableName() string {
	return "permission_user"
}
