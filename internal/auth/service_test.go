package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/care-roster/internal"
	userDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/user"
	"github.com/frahmantamala/care-roster/pkg/logger"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

type mockUserRepository struct {
	usersByEmail map[string]*userDatamodel.User
	usersByID    map[int64]*userDatamodel.User
	nextID       int64
	createErr    error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		usersByEmail: make(map[string]*userDatamodel.User),
		usersByID:    make(map[int64]*userDatamodel.User),
		nextID:       1,
	}
}

func (m *mockUserRepository) add(user *userDatamodel.User) {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
}

func (m *mockUserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	if u, ok := m.usersByID[id]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockUserRepository) Create(user *userDatamodel.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.add(user)
	return nil
}

type mockPermissionSource struct {
	perms map[int64][]string
	roles map[int64][]string
	err   error
}

func (m *mockPermissionSource) EffectivePermissions(userID int64) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.perms[userID], nil
}

func (m *mockPermissionSource) RoleNames(userID int64) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.roles[userID], nil
}

var _ = ginkgo.Describe("Auth Service", func() {
	var (
		repo     *mockUserRepository
		perms    *mockPermissionSource
		tokenGen *JWTTokenGenerator
		service  *Service

		approvedAt time.Time
	)

	mustHash := func(password string) string {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		return string(hash)
	}

	ginkgo.BeforeEach(func() {
		repo = newMockUserRepository()
		perms = &mockPermissionSource{
			perms: make(map[int64][]string),
			roles: make(map[int64][]string),
		}
		tokenGen = NewJWTTokenGenerator(
			"test-access-secret-at-least-32-chars!",
			"test-refresh-secret-at-least-32-char!",
		)
		service = NewService(repo, perms, tokenGen, bcrypt.MinCost, logger.L())

		approvedAt = time.Now().Add(-24 * time.Hour)
		repo.add(&userDatamodel.User{
			ID:           1,
			Name:         "Priya Manager",
			Email:        "priya@example.com",
			PasswordHash: mustHash("correct-password"),
			ApprovedAt:   &approvedAt,
		})
		repo.add(&userDatamodel.User{
			ID:           2,
			Name:         "Pat Pending",
			Email:        "pending@example.com",
			PasswordHash: mustHash("correct-password"),
		})
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("issues a token pair for an approved user", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "priya@example.com", Password: "correct-password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).NotTo(gomega.BeEmpty())

			claims, err := tokenGen.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("1"))
		})

		ginkgo.It("matches the email case-insensitively", func() {
			_, err := service.Authenticate(LoginDTO{Email: "Priya@Example.COM", Password: "correct-password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("rejects a wrong password with the generic credential error", func() {
			_, err := service.Authenticate(LoginDTO{Email: "priya@example.com", Password: "wrong"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("rejects an unknown email with the same error as a wrong password", func() {
			_, err := service.Authenticate(LoginDTO{Email: "nobody@example.com", Password: "correct-password"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("blocks an unapproved account even with correct credentials", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "pending@example.com", Password: "correct-password"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountPending))
			gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("SSOLogin", func() {
		ginkgo.It("auto-creates a pending account for an unknown email and withholds tokens", func() {
			tokens, err := service.SSOLogin("google", SSOCallbackDTO{Email: "new@example.com", Name: "New Person"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountPending))
			gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())

			created, err := repo.GetByEmail("new@example.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(created.Name).To(gomega.Equal("New Person"))
			gomega.Expect(created.ApprovedAt).To(gomega.BeNil())
			gomega.Expect(created.PasswordHash).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("derives the name from the email local part when the provider sends none", func() {
			_, err := service.SSOLogin("google", SSOCallbackDTO{Email: "jordan.lee@example.com"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountPending))

			created, err := repo.GetByEmail("jordan.lee@example.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(created.Name).To(gomega.Equal("jordan.lee"))
		})

		ginkgo.It("gives an auto-created account a password that cannot sign in", func() {
			_, err := service.SSOLogin("google", SSOCallbackDTO{Email: "new@example.com"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountPending))

			created, _ := repo.GetByEmail("new@example.com")
			compareErr := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(""))
			gomega.Expect(compareErr).To(gomega.HaveOccurred())
		})

		ginkgo.It("blocks an existing unapproved account", func() {
			_, err := service.SSOLogin("google", SSOCallbackDTO{Email: "pending@example.com"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountPending))
		})

		ginkgo.It("issues tokens for an approved account", func() {
			tokens, err := service.SSOLogin("google", SSOCallbackDTO{Email: "priya@example.com"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("surfaces a storage failure during auto-creation", func() {
			repo.createErr = errors.New("insert failed")
			_, err := service.SSOLogin("google", SSOCallbackDTO{Email: "new@example.com"})
			gomega.Expect(err).To(gomega.MatchError(repo.createErr))
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("rotates the pair for an approved user", func() {
			refresh, err := tokenGen.GenerateRefreshToken("1", "priya@example.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			tokens, err := service.RefreshTokens(refresh)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("re-applies the approval gate to a valid token", func() {
			refresh, err := tokenGen.GenerateRefreshToken("2", "pending@example.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(refresh)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountPending))
		})

		ginkgo.It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})

		ginkgo.It("rejects an expired refresh token with the expiry error", func() {
			shortGen := NewJWTTokenGenerator(
				"test-access-secret-at-least-32-chars!",
				"test-refresh-secret-at-least-32-char!",
			)
			shortGen.RefreshTokenTTL = -time.Minute
			refresh, err := shortGen.GenerateRefreshToken("1", "priya@example.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(refresh)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrTokenExpired))
		})

		ginkgo.It("rejects a token whose subject no longer exists", func() {
			refresh, err := tokenGen.GenerateRefreshToken("404", "gone@example.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(refresh)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})
	})

	ginkgo.Describe("GetUserWithPermissions", func() {
		ginkgo.It("stamps the principal with resolver output", func() {
			perms.perms[1] = []string{"shifts.viewAny", "timesheets.create"}
			perms.roles[1] = []string{"provider_manager"}

			principal, err := service.GetUserWithPermissions(1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(principal.Email).To(gomega.Equal("priya@example.com"))
			gomega.Expect(principal.Permissions).To(gomega.Equal([]string{"shifts.viewAny", "timesheets.create"}))
			gomega.Expect(principal.Roles).To(gomega.Equal([]string{"provider_manager"}))
		})

		ginkgo.It("propagates resolver failures", func() {
			perms.err = errors.New("resolver down")
			_, err := service.GetUserWithPermissions(1)
			gomega.Expect(err).To(gomega.MatchError(perms.err))
		})
	})
})
