package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/frahmantamala/care-roster/internal"
	userDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/user"
	"github.com/frahmantamala/care-roster/internal/rbac"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Create(user *userDatamodel.User) error
}

// PermissionSource resolves a user's effective permissions and roles for the
// request principal. Satisfied by rbac.Resolver.
type PermissionSource interface {
	EffectivePermissions(userID int64) ([]string, error)
	RoleNames(userID int64) ([]string, error)
}

// Service handles authentication: credential checks, SSO account intake,
// token issuance and the account approval gate. Every path that could end in
// an established session runs through the gate; a pending account never
// receives tokens.
type Service struct {
	userRepo       UserRepository
	permissions    PermissionSource
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, permissions PermissionSource, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		permissions:    permissions,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate validates credentials, applies the approval gate and returns
// tokens. The gate response is a fixed message that does not confirm the
// credentials were otherwise correct.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	user, err := s.userRepo.GetByEmail(strings.ToLower(dto.Email))
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if user.ApprovedAt == nil {
		s.logger.Info("login blocked: account pending approval", "user_id", user.ID)
		return AuthTokens{}, internal.ErrAccountPending
	}

	return s.issueTokens(user)
}

// SSOLogin completes an identity-provider login from a verified email. An
// unknown email auto-creates a pending account with no roles and an
// unusable random password; the caller gets the same "awaiting approval"
// answer as any other unapproved user.
func (s *Service) SSOLogin(provider string, dto SSOCallbackDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		name := strings.TrimSpace(dto.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}

		randomSecret, err := generateRandomToken()
		if err != nil {
			return AuthTokens{}, err
		}
		hash, err := HashPassword(randomSecret, s.bcryptCost)
		if err != nil {
			return AuthTokens{}, err
		}

		created := &userDatamodel.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
		}
		if err := s.userRepo.Create(created); err != nil {
			s.logger.Error("failed to auto-create SSO user", "error", err, "provider", provider)
			return AuthTokens{}, err
		}

		s.logger.Info("created pending account from identity provider",
			"user_id", created.ID,
			"provider", provider)
		return AuthTokens{}, internal.ErrAccountPending
	}

	if user.ApprovedAt == nil {
		s.logger.Info("sso login blocked: account pending approval", "user_id", user.ID, "provider", provider)
		return AuthTokens{}, internal.ErrAccountPending
	}

	return s.issueTokens(user)
}

// RefreshTokens exchanges a refresh token for a new pair. The approval gate
// is re-checked so a stale refresh token cannot outlive a revoked approval
// state.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return AuthTokens{}, internal.ErrTokenExpired
		}
		return AuthTokens{}, internal.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	if user.ApprovedAt == nil {
		return AuthTokens{}, internal.ErrAccountPending
	}

	return s.issueTokens(user)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// GetUserWithPermissions loads the request principal: user fields plus the
// effective permission set and role slugs from the resolver.
func (s *Service) GetUserWithPermissions(userID int64) (*internal.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	perms, err := s.permissions.EffectivePermissions(userID)
	if err != nil {
		return nil, err
	}
	roles, err := s.permissions.RoleNames(userID)
	if err != nil {
		return nil, err
	}

	return &internal.User{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		LegacyRole:  user.LegacyRole,
		ApprovedAt:  user.ApprovedAt,
		Roles:       roles,
		Permissions: perms,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

func (s *Service) issueTokens(user *userDatamodel.User) (AuthTokens, error) {
	id := strconv.FormatInt(user.ID, 10)

	accessToken, err := s.tokenGenerator.GenerateAccessToken(id, user.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(id, user.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func generateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

var _ PermissionSource = (*rbac.Resolver)(nil)
