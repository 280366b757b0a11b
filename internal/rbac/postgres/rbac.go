package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/frahmantamala/care-roster/internal"
	userDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/user"
	"github.com/frahmantamala/care-roster/internal/rbac"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements rbac.Repository using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) rbac.Repository {
	return &Repository{db: db}
}

func (r *Repository) OverrideModeFor(userID int64, key string) (rbac.OverrideMode, error) {
	var allowed bool
	err := r.db.Raw(`
		SELECT pu.allowed
		FROM permission_user pu
		JOIN permissions p ON p.id = pu.permission_id
		WHERE pu.user_id = ? AND p.key = ?`, userID, key).Row().Scan(&allowed)
	if err != nil {
		if isNoRows(err) {
			return rbac.OverrideInherit, nil
		}
		return rbac.OverrideInherit, err
	}
	if allowed {
		return rbac.OverrideAllow, nil
	}
	return rbac.OverrideDeny, nil
}

func (r *Repository) RoleGrants(userID int64, key string) (bool, error) {
	var count int64
	err := r.db.Raw(`
		SELECT COUNT(1)
		FROM role_user ru
		JOIN role_permission rp ON rp.role_id = ru.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE ru.user_id = ? AND p.key = ?`, userID, key).Row().Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) RolePermissionKeys(userID int64) ([]string, error) {
	rows, err := r.db.Raw(`
		SELECT DISTINCT p.key
		FROM role_user ru
		JOIN role_permission rp ON rp.role_id = ru.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE ru.user_id = ?`, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *Repository) OverridesByKey(userID int64) (map[string]bool, error) {
	rows, err := r.db.Raw(`
		SELECT p.key, pu.allowed
		FROM permission_user pu
		JOIN permissions p ON p.id = pu.permission_id
		WHERE pu.user_id = ?`, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[string]bool)
	for rows.Next() {
		var key string
		var allowed bool
		if err := rows.Scan(&key, &allowed); err != nil {
			return nil, err
		}
		overrides[key] = allowed
	}
	return overrides, rows.Err()
}

func (r *Repository) RoleNames(userID int64) ([]string, error) {
	rows, err := r.db.Raw(`
		SELECT r.name
		FROM roles r
		JOIN role_user ru ON ru.role_id = r.id
		WHERE ru.user_id = ?
		ORDER BY r.id`, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *Repository) GetUserAccess(userID int64) (*rbac.UserAccess, error) {
	var u userDatamodel.User
	if err := r.db.Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return r.buildAccess(&u)
}

func (r *Repository) ListUserAccess() ([]*rbac.UserAccess, error) {
	var users []userDatamodel.User
	if err := r.db.Order("name").Find(&users).Error; err != nil {
		return nil, err
	}

	access := make([]*rbac.UserAccess, 0, len(users))
	for i := range users {
		ua, err := r.buildAccess(&users[i])
		if err != nil {
			return nil, err
		}
		access = append(access, ua)
	}
	return access, nil
}

func (r *Repository) buildAccess(u *userDatamodel.User) (*rbac.UserAccess, error) {
	roles, err := r.rolesForUser(u.ID)
	if err != nil {
		return nil, err
	}

	var overrideRows []userDatamodel.PermissionOverride
	if err := r.db.Where("user_id = ?", u.ID).Find(&overrideRows).Error; err != nil {
		return nil, err
	}
	overrides := make(map[int64]bool, len(overrideRows))
	for _, o := range overrideRows {
		overrides[o.PermissionID] = o.Allowed
	}

	return &rbac.UserAccess{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		LegacyRole: u.LegacyRole,
		ApprovedAt: u.ApprovedAt,
		Roles:      roles,
		Overrides:  overrides,
	}, nil
}

func (r *Repository) rolesForUser(userID int64) ([]rbac.Role, error) {
	rows, err := r.db.Raw(`
		SELECT r.id, r.name, r.label
		FROM roles r
		JOIN role_user ru ON ru.role_id = r.id
		WHERE ru.user_id = ?
		ORDER BY r.id`, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]rbac.Role, 0)
	for rows.Next() {
		var role rbac.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Label); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *Repository) ListRoles() ([]rbac.Role, error) {
	var models []userDatamodel.Role
	if err := r.db.Order("label").Find(&models).Error; err != nil {
		return nil, err
	}
	roles := make([]rbac.Role, len(models))
	for i, m := range models {
		roles[i] = rbac.Role{ID: m.ID, Name: m.Name, Label: m.Label}
	}
	return roles, nil
}

func (r *Repository) ListPermissions() ([]rbac.Permission, error) {
	var models []userDatamodel.Permission
	if err := r.db.Order("key").Find(&models).Error; err != nil {
		return nil, err
	}
	permissions := make([]rbac.Permission, len(models))
	for i, m := range models {
		permissions[i] = rbac.Permission{ID: m.ID, Key: m.Key, Description: m.Description}
	}
	return permissions, nil
}

func (r *Repository) RolesByID(roleIDs []int64) ([]rbac.Role, error) {
	if len(roleIDs) == 0 {
		return []rbac.Role{}, nil
	}
	var models []userDatamodel.Role
	if err := r.db.Where("id IN ?", roleIDs).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	roles := make([]rbac.Role, len(models))
	for i, m := range models {
		roles[i] = rbac.Role{ID: m.ID, Name: m.Name, Label: m.Label}
	}
	return roles, nil
}

// ReplaceRoles swaps the user's whole role set in one transaction and
// refreshes the denormalized users.role label.
func (r *Repository) ReplaceRoles(userID int64, roleIDs []int64, legacyRole string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.RoleUser{}).Error; err != nil {
			return err
		}
		for _, roleID := range roleIDs {
			if err := tx.Create(&userDatamodel.RoleUser{RoleID: roleID, UserID: userID}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&userDatamodel.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"role":       legacyRole,
				"updated_at": time.Now(),
			}).Error
	})
}

// SetOverride upserts on the unique (user_id, permission_id) pair so two
// conflicting rows can never coexist for the same key.
func (r *Repository) SetOverride(userID, permissionID int64, allowed bool) error {
	row := userDatamodel.PermissionOverride{
		UserID:       userID,
		PermissionID: permissionID,
		Allowed:      allowed,
		UpdatedAt:    time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "permission_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"allowed", "updated_at"}),
	}).Create(&row).Error
}

func (r *Repository) ClearOverride(userID, permissionID int64) error {
	return r.db.
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&userDatamodel.PermissionOverride{}).Error
}

// MarkApproved only touches rows whose approved_at is still null, so
// repeated approvals never overwrite the original stamp.
func (r *Repository) MarkApproved(userID, approverID int64, at time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ? AND approved_at IS NULL", userID).
		Updates(map[string]interface{}{
			"approved_at": at,
			"approved_by": approverID,
			"updated_at":  time.Now(),
		}).Error
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound)
}
