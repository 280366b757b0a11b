package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	internal "github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/client"
	clientDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/client"
	"github.com/frahmantamala/care-roster/internal/rbac"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(c *client.Client) error {
	row := toRow(c)
	if err := r.db.Create(row).Error; err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	c.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ClientRepository) GetByID(id int64) (*client.Client, error) {
	var row clientDatamodel.Client
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrClientNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}

	c := fromRow(&row)

	assigned, err := r.AssignedUserIDs(id)
	if err != nil {
		return nil, err
	}
	c.AssignedUserIDs = assigned

	return c, nil
}

// List returns clients under the given scope. An owned scope becomes the
// assignment join: only clients linked to the user through client_user.
func (r *ClientRepository) List(scope rbac.Scope, limit, offset int) ([]*client.Client, error) {
	var rows []clientDatamodel.Client

	q := r.db.Model(&clientDatamodel.Client{})
	if !scope.Global {
		q = q.Joins("JOIN client_user cu ON cu.client_id = clients.id").
			Where("cu.user_id = ?", scope.UserID)
	}

	err := q.Order("last_name, first_name").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	clients := make([]*client.Client, len(rows))
	for i := range rows {
		clients[i] = fromRow(&rows[i])
	}
	return clients, nil
}

func (r *ClientRepository) Update(c *client.Client) error {
	updates := map[string]interface{}{
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"status":     c.Status,
		"user_id":    c.UserID,
		"updated_at": time.Now(),
	}
	result := r.db.Model(&clientDatamodel.Client{}).Where("id = ?", c.ID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update client: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return internal.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) IsAssigned(clientID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&clientDatamodel.ClientUser{}).
		Where("client_id = ? AND user_id = ?", clientID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check client assignment: %w", err)
	}
	return count > 0, nil
}

func (r *ClientRepository) AssignedUserIDs(clientID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&clientDatamodel.ClientUser{}).
		Where("client_id = ?", clientID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list assigned users: %w", err)
	}
	return ids, nil
}

// ReplaceAssignments swaps the whole assignment set in one transaction.
func (r *ClientRepository) ReplaceAssignments(clientID int64, userIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", clientID).Delete(&clientDatamodel.ClientUser{}).Error; err != nil {
			return fmt.Errorf("clear assignments: %w", err)
		}
		for _, userID := range userIDs {
			row := clientDatamodel.ClientUser{ClientID: clientID, UserID: userID}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("assign user %d: %w", userID, err)
			}
		}
		return nil
	})
}

func toRow(c *client.Client) *clientDatamodel.Client {
	return &clientDatamodel.Client{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Status:    c.Status,
		UserID:    c.UserID,
	}
}

func fromRow(row *clientDatamodel.Client) *client.Client {
	return &client.Client{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Status:    row.Status,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
