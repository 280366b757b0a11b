package client

import (
	"time"

	"github.com/frahmantamala/care-roster/internal/rbac"
)

// Client is the person receiving support. Assignments link support workers
// to the clients they serve; scoped listings follow those links.
type Client struct {
	ID              int64     `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Status          string    `json:"status"`
	UserID          *int64    `json:"user_id,omitempty"`
	AssignedUserIDs []int64   `json:"assigned_user_ids,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Repository defines the data access methods for clients and their
// staff assignments.
type Repository interface {
	Create(client *Client) error
	GetByID(id int64) (*Client, error)
	List(scope rbac.Scope, limit, offset int) ([]*Client, error)
	Update(client *Client) error
	IsAssigned(clientID, userID int64) (bool, error)
	AssignedUserIDs(clientID int64) ([]int64, error)
	ReplaceAssignments(clientID int64, userIDs []int64) error
}
