package settings

import (
	"log/slog"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/rbac"
)

// Service reads and writes provider-level settings. Reads are open to any
// authenticated user (the UI needs branding and terminology everywhere);
// writes require the group's manage permission.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetGroup(group string) (map[string]string, error) {
	keys, ok := KeysForGroup(group)
	if !ok {
		return nil, internal.NewValidationFieldError("group", "unknown settings group", internal.ErrCodeValidationFailed)
	}

	values, err := s.repo.GetAll(keys)
	if err != nil {
		s.logger.Error("failed to load settings", "error", err, "group", group)
		return nil, err
	}
	return values, nil
}

func (s *Service) UpdateGroup(user *internal.User, group string, values map[string]string) (map[string]string, error) {
	if !user.HasPermission(managePermission(group)) {
		return nil, internal.ErrForbidden
	}

	for key := range values {
		if !IsKnownKey(group, key) {
			return nil, internal.NewValidationFieldError(key, "unknown setting key", internal.ErrCodeValidationFailed)
		}
	}

	for key, value := range values {
		if err := s.repo.Upsert(key, value); err != nil {
			s.logger.Error("failed to write setting", "error", err, "key", key)
			return nil, err
		}
	}

	s.logger.Info("settings updated", "group", group, "updated_by", user.ID, "keys", len(values))
	return s.GetGroup(group)
}

func managePermission(group string) string {
	switch group {
	case GroupBranding:
		return rbac.PermSettingsBrandingManage
	case GroupTerminology:
		return rbac.PermSettingsTerminologyManage
	default:
		// Unknown groups resolve to a permission nobody holds.
		return "settings." + group + ".manage"
	}
}
