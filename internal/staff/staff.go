package staff

import (
	"time"

	userDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/user"
)

// Member is the staff directory view of a user: profile fields plus role
// slugs and approval state, without credentials.
type Member struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Roles             []string   `json:"roles"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	AssignedClientIDs []int64    `json:"assigned_client_ids,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (m *Member) IsApproved() bool {
	return m.ApprovedAt != nil
}

// Repository defines the data access methods for the staff directory.
type Repository interface {
	List(limit, offset int) ([]*Member, error)
	GetByID(id int64) (*Member, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	Create(user *userDatamodel.User, roleIDs []int64) error
	UpdateProfile(id int64, name, email string) error
	AssignedClientIDs(userID int64) ([]int64, error)
	ReplaceClientAssignments(userID int64, clientIDs []int64) error
}
