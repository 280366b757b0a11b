package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	internal "github.com/frahmantamala/care-roster/internal"
	clientDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/client"
	userDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/user"
	"github.com/frahmantamala/care-roster/internal/staff"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) List(limit, offset int) ([]*staff.Member, error) {
	var rows []userDatamodel.User
	err := r.db.Order("name").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	members := make([]*staff.Member, len(rows))
	for i := range rows {
		member, err := r.toMember(&rows[i])
		if err != nil {
			return nil, err
		}
		members[i] = member
	}
	return members, nil
}

func (r *StaffRepository) GetByID(id int64) (*staff.Member, error) {
	var row userDatamodel.User
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get staff member: %w", err)
	}
	return r.toMember(&row)
}

func (r *StaffRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get staff by email: %w", err)
	}
	return &row, nil
}

func (r *StaffRepository) Create(user *userDatamodel.User, roleIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create staff user: %w", err)
		}
		for _, roleID := range roleIDs {
			link := userDatamodel.RoleUser{RoleID: roleID, UserID: user.ID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("assign role %d: %w", roleID, err)
			}
		}
		return nil
	})
}

func (r *StaffRepository) UpdateProfile(id int64, name, email string) error {
	result := r.db.Model(&userDatamodel.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":       name,
		"email":      email,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("update staff profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *StaffRepository) AssignedClientIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&clientDatamodel.ClientUser{}).
		Where("user_id = ?", userID).
		Order("client_id").
		Pluck("client_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load assigned clients for staff %d: %w", userID, err)
	}
	return ids, nil
}

// ReplaceClientAssignments swaps the staff member's whole assigned-client
// set in one transaction.
func (r *StaffRepository) ReplaceClientAssignments(userID int64, clientIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&clientDatamodel.ClientUser{}).Error; err != nil {
			return fmt.Errorf("clear staff assignments: %w", err)
		}
		for _, clientID := range clientIDs {
			link := clientDatamodel.ClientUser{ClientID: clientID, UserID: userID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("assign client %d: %w", clientID, err)
			}
		}
		return nil
	})
}

func (r *StaffRepository) toMember(row *userDatamodel.User) (*staff.Member, error) {
	var roles []string
	err := r.db.Model(&userDatamodel.Role{}).
		Joins("JOIN role_user ru ON ru.role_id = roles.id").
		Where("ru.user_id = ?", row.ID).
		Order("roles.name").
		Pluck("roles.name", &roles).Error
	if err != nil {
		return nil, fmt.Errorf("load roles for staff %d: %w", row.ID, err)
	}

	return &staff.Member{
		ID:         row.ID,
		Name:       row.Name,
		Email:      row.Email,
		Roles:      roles,
		ApprovedAt: row.ApprovedAt,
		CreatedAt:  row.CreatedAt,
	}, nil
}
