package client

import (
	"log/slog"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/rbac"
)

// Service handles client business logic. Visibility follows the scope
// filter: support workers only ever see clients they are assigned to.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListClients returns the clients visible to the user under their scope.
func (s *Service) ListClients(user *internal.User, limit, offset int) ([]*Client, error) {
	if !user.HasPermission(rbac.PermClientsViewAny) {
		return nil, internal.ErrForbidden
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	scope := rbac.ScopeFor(user.ID, user.Permissions, user.Roles, rbac.ResourceClients)

	clients, err := s.repo.List(scope, limit, offset)
	if err != nil {
		s.logger.Error("failed to list clients", "error", err, "user_id", user.ID)
		return nil, err
	}
	return clients, nil
}

// GetClient returns a single client, re-checking scope for narrow users.
func (s *Service) GetClient(user *internal.User, id int64) (*Client, error) {
	if !user.HasPermission(rbac.PermClientsViewAny) {
		return nil, internal.ErrForbidden
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	scope := rbac.ScopeFor(user.ID, user.Permissions, user.Roles, rbac.ResourceClients)
	if !scope.Global {
		assigned, err := s.repo.IsAssigned(id, user.ID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			s.logger.Warn("scoped user requested unassigned client", "user_id", user.ID, "client_id", id)
			return nil, internal.ErrClientNotFound
		}
	}

	return c, nil
}

func (s *Service) CreateClient(user *internal.User, dto CreateClientDTO) (*Client, error) {
	if !user.HasPermission(rbac.PermClientsCreate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Status:    dto.Status,
		UserID:    dto.UserID,
	}
	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create client", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("client created", "client_id", c.ID, "created_by", user.ID)
	return c, nil
}

func (s *Service) UpdateClient(user *internal.User, id int64, dto UpdateClientDTO) (*Client, error) {
	if !user.HasPermission(rbac.PermClientsUpdate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	c.FirstName = dto.FirstName
	c.LastName = dto.LastName
	c.Status = dto.Status
	c.UserID = dto.UserID

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update client", "error", err, "client_id", id)
		return nil, err
	}
	return c, nil
}

// UpdateAssignments replaces the assigned support worker set in one
// transaction so two admins editing concurrently converge on a full set,
// not an interleaved mix.
func (s *Service) UpdateAssignments(user *internal.User, clientID int64, dto UpdateAssignmentsDTO) (*Client, error) {
	if !user.HasPermission(rbac.PermClientsAssignmentsUpdate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(clientID); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceAssignments(clientID, dto.UserIDs); err != nil {
		s.logger.Error("failed to replace client assignments", "error", err, "client_id", clientID)
		return nil, err
	}

	s.logger.Info("client assignments updated",
		"client_id", clientID,
		"assigned_count", len(dto.UserIDs),
		"updated_by", user.ID)

	return s.repo.GetByID(clientID)
}
