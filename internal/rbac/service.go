package rbac

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/care-roster/internal"
)

// Service manages user access: role assignment, permission overrides and
// account approval. Every operation requires settings.access.manage.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListAccess(actorPerms []string) (*AccessPage, error) {
	if !HasPermission(actorPerms, PermSettingsAccessManage) {
		return nil, internal.ErrForbidden
	}

	users, err := s.repo.ListUserAccess()
	if err != nil {
		s.logger.Error("failed to list user access", "error", err)
		return nil, err
	}
	roles, err := s.repo.ListRoles()
	if err != nil {
		return nil, err
	}
	permissions, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}

	return &AccessPage{Users: users, Roles: roles, Permissions: permissions}, nil
}

// SetUserAccess replaces the target's role set atomically and applies the
// requested override modes. The legacy users.role label is refreshed as a
// write-only cache; the resolver never reads it.
func (s *Service) SetUserAccess(actorID int64, actorPerms []string, targetID int64, dto UpdateAccessDTO) error {
	if !HasPermission(actorPerms, PermSettingsAccessManage) {
		s.logger.Warn("access update denied: insufficient permissions", "actor_id", actorID, "target_id", targetID)
		return internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	if _, err := s.repo.GetUserAccess(targetID); err != nil {
		return err
	}

	if err := s.applyAccessChanges(targetID, dto.RoleIDs, dto.Overrides); err != nil {
		s.logger.Error("failed to apply access changes", "error", err, "target_id", targetID)
		return err
	}

	s.logger.Info("user access updated", "actor_id", actorID, "target_id", targetID, "role_count", len(dto.RoleIDs))
	return nil
}

// ApproveUser stamps approved_at/approved_by on a pending account and assigns
// its initial roles in the same operation. Re-approving an already approved
// user is a no-op for the timestamp.
func (s *Service) ApproveUser(actorID int64, actorPerms []string, targetID int64, dto ApproveUserDTO) error {
	if !HasPermission(actorPerms, PermSettingsAccessManage) {
		s.logger.Warn("approval denied: insufficient permissions", "actor_id", actorID, "target_id", targetID)
		return internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	if _, err := s.repo.GetUserAccess(targetID); err != nil {
		return err
	}

	if err := s.applyAccessChanges(targetID, dto.RoleIDs, dto.Overrides); err != nil {
		s.logger.Error("failed to apply access changes on approval", "error", err, "target_id", targetID)
		return err
	}

	if err := s.repo.MarkApproved(targetID, actorID, time.Now()); err != nil {
		s.logger.Error("failed to mark user approved", "error", err, "target_id", targetID)
		return err
	}

	s.logger.Info("user approved", "actor_id", actorID, "target_id", targetID, "role_count", len(dto.RoleIDs))
	return nil
}

func (s *Service) applyAccessChanges(targetID int64, roleIDs []int64, overrides map[int64]string) error {
	roles, err := s.repo.RolesByID(roleIDs)
	if err != nil {
		return err
	}
	if len(roles) != len(roleIDs) {
		return internal.ErrRoleNotFound
	}

	legacyRole := RoleSupportWorker
	if len(roles) > 0 {
		legacyRole = roles[0].Name
	}

	// Whole-set replace, not incremental add/remove: two admins editing the
	// same user concurrently converge on one complete role set.
	if err := s.repo.ReplaceRoles(targetID, roleIDs, legacyRole); err != nil {
		return err
	}

	for permissionID, raw := range overrides {
		mode, err := ParseOverrideMode(raw)
		if err != nil {
			return err
		}
		switch mode {
		case OverrideInherit:
			if err := s.repo.ClearOverride(targetID, permissionID); err != nil {
				return err
			}
		default:
			if err := s.repo.SetOverride(targetID, permissionID, mode == OverrideAllow); err != nil {
				return err
			}
		}
	}

	return nil
}
