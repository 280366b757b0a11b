package staff

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/care-roster/internal"
	userDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/user"
	"github.com/frahmantamala/care-roster/internal/rbac"
)

// Service handles the staff directory: listing team members and inviting
// new ones. Role and approval changes live on the access screen, not here.
type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

func (s *Service) ListStaff(user *internal.User, limit, offset int) ([]*Member, error) {
	if !user.HasPermission(rbac.PermStaffViewAny) {
		return nil, internal.ErrForbidden
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	members, err := s.repo.List(limit, offset)
	if err != nil {
		s.logger.Error("failed to list staff", "error", err, "user_id", user.ID)
		return nil, err
	}
	return members, nil
}

func (s *Service) GetStaff(user *internal.User, id int64) (*Member, error) {
	if !user.HasPermission(rbac.PermStaffViewAny) {
		return nil, internal.ErrForbidden
	}
	return s.repo.GetByID(id)
}

// InviteStaff creates an account for a new team member. The account starts
// unapproved so the invite alone never grants access; approval happens on
// the access screen once roles are settled.
func (s *Service) InviteStaff(user *internal.User, dto InviteStaffDTO) (*Member, error) {
	if !user.HasAnyPermission(rbac.PermStaffInvite, rbac.PermStaffCreate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, internal.NewConflictError("a user with this email already exists", internal.ErrCodeEmailAlreadyInUse)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	row := &userDatamodel.User{
		Name:         strings.TrimSpace(dto.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(row, dto.RoleIDs); err != nil {
		s.logger.Error("failed to invite staff member", "error", err, "invited_by", user.ID)
		return nil, err
	}

	s.logger.Info("staff member invited", "staff_id", row.ID, "invited_by", user.ID)
	return s.repo.GetByID(row.ID)
}

// UpdateAssignments replaces the staff member's assigned client set in one
// transaction, the same whole-set semantics as the client-side screen so two
// admins editing concurrently converge on a full set.
func (s *Service) UpdateAssignments(user *internal.User, staffID int64, dto UpdateAssignmentsDTO) (*Member, error) {
	if !user.HasPermission(rbac.PermStaffAssignmentsUpdate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(staffID); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceClientAssignments(staffID, dto.ClientIDs); err != nil {
		s.logger.Error("failed to replace staff client assignments", "error", err, "staff_id", staffID)
		return nil, err
	}

	s.logger.Info("staff assignments updated",
		"staff_id", staffID,
		"assigned_count", len(dto.ClientIDs),
		"updated_by", user.ID)

	member, err := s.repo.GetByID(staffID)
	if err != nil {
		return nil, err
	}
	clientIDs, err := s.repo.AssignedClientIDs(staffID)
	if err != nil {
		return nil, err
	}
	member.AssignedClientIDs = clientIDs
	return member, nil
}

func (s *Service) UpdateStaff(user *internal.User, id int64, dto UpdateStaffDTO) (*Member, error) {
	if !user.HasPermission(rbac.PermStaffUpdate) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(id, strings.TrimSpace(dto.Name), strings.ToLower(strings.TrimSpace(dto.Email))); err != nil {
		s.logger.Error("failed to update staff member", "error", err, "staff_id", id)
		return nil, err
	}
	return s.repo.GetByID(id)
}
