package staff

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/care-roster/internal"
	userDatamodel "github.com/frahmantamala/care-roster/internal/core/datamodel/user"
	"github.com/frahmantamala/care-roster/internal/rbac"
	"github.com/frahmantamala/care-roster/pkg/logger"
)

func TestStaff(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Staff Module Suite")
}

type mockRepository struct {
	members      map[int64]*Member
	usersByEmail map[string]*userDatamodel.User
	roleSets     map[int64][]int64
	clientSets   map[int64][]int64
	nextID       int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		members:      make(map[int64]*Member),
		usersByEmail: make(map[string]*userDatamodel.User),
		roleSets:     make(map[int64][]int64),
		clientSets:   make(map[int64][]int64),
		nextID:       1,
	}
}

func (m *mockRepository) List(limit, offset int) ([]*Member, error) {
	var out []*Member
	for _, member := range m.members {
		out = append(out, member)
	}
	return out, nil
}

func (m *mockRepository) GetByID(id int64) (*Member, error) {
	if member, ok := m.members[id]; ok {
		return member, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockRepository) Create(user *userDatamodel.User, roleIDs []int64) error {
	user.ID = m.nextID
	m.nextID++
	m.usersByEmail[user.Email] = user
	m.roleSets[user.ID] = roleIDs
	m.members[user.ID] = &Member{ID: user.ID, Name: user.Name, Email: user.Email}
	return nil
}

func (m *mockRepository) AssignedClientIDs(userID int64) ([]int64, error) {
	return m.clientSets[userID], nil
}

func (m *mockRepository) ReplaceClientAssignments(userID int64, clientIDs []int64) error {
	m.clientSets[userID] = clientIDs
	return nil
}

func (m *mockRepository) UpdateProfile(id int64, name, email string) error {
	member, ok := m.members[id]
	if !ok {
		return internal.ErrUserNotFound
	}
	member.Name = name
	member.Email = email
	return nil
}

var _ = ginkgo.Describe("Staff Service", func() {
	var (
		repo    *mockRepository
		service *Service

		manager *internal.User
		worker  *internal.User
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo, bcrypt.MinCost, logger.L())

		manager = &internal.User{
			ID: 1,
			Permissions: []string{
				rbac.PermStaffViewAny,
				rbac.PermStaffInvite,
				rbac.PermStaffUpdate,
				rbac.PermStaffAssignmentsUpdate,
			},
		}
		worker = &internal.User{ID: 5, Permissions: []string{rbac.PermShiftsViewAny}}
	})

	ginkgo.Describe("ListStaff", func() {
		ginkgo.It("requires staff.viewAny", func() {
			_, err := service.ListStaff(worker, 50, 0)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
		})
	})

	ginkgo.Describe("InviteStaff", func() {
		ginkgo.It("creates an unapproved account with an unusable password", func() {
			member, err := service.InviteStaff(manager, InviteStaffDTO{
				Name: "New Hire", Email: "Hire@Example.com", RoleIDs: []int64{3},
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(member.IsApproved()).To(gomega.BeFalse())

			created, err := repo.GetByEmail("hire@example.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(created.ApprovedAt).To(gomega.BeNil())
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(""))).To(gomega.HaveOccurred())
			gomega.Expect(repo.roleSets[created.ID]).To(gomega.Equal([]int64{3}))
		})

		ginkgo.It("rejects a duplicate email with a conflict", func() {
			repo.usersByEmail["hire@example.com"] = &userDatamodel.User{ID: 9, Email: "hire@example.com"}

			_, err := service.InviteStaff(manager, InviteStaffDTO{Name: "New Hire", Email: "hire@example.com"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeEmailAlreadyInUse))
		})

		ginkgo.It("accepts staff.create in place of staff.invite", func() {
			creator := &internal.User{ID: 2, Permissions: []string{rbac.PermStaffCreate}}
			_, err := service.InviteStaff(creator, InviteStaffDTO{Name: "New Hire", Email: "hire@example.com"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("denies a caller without either permission", func() {
			_, err := service.InviteStaff(worker, InviteStaffDTO{Name: "New Hire", Email: "hire@example.com"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
		})

		ginkgo.It("rejects an email without a domain part", func() {
			_, err := service.InviteStaff(manager, InviteStaffDTO{Name: "New Hire", Email: "not-an-email"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("UpdateAssignments", func() {
		ginkgo.BeforeEach(func() {
			gomega.Expect(repo.Create(&userDatamodel.User{Name: "Sam Worker", Email: "sam@example.com"}, nil)).To(gomega.Succeed())
		})

		ginkgo.It("replaces the whole assigned client set and returns it", func() {
			repo.clientSets[1] = []int64{3, 4}

			member, err := service.UpdateAssignments(manager, 1, UpdateAssignmentsDTO{ClientIDs: []int64{4, 7}})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(member.AssignedClientIDs).To(gomega.Equal([]int64{4, 7}))
			gomega.Expect(repo.clientSets[1]).To(gomega.Equal([]int64{4, 7}))
		})

		ginkgo.It("clears all assignments with an empty set", func() {
			repo.clientSets[1] = []int64{3}

			member, err := service.UpdateAssignments(manager, 1, UpdateAssignmentsDTO{})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(member.AssignedClientIDs).To(gomega.BeEmpty())
		})

		ginkgo.It("rejects duplicate client ids", func() {
			_, err := service.UpdateAssignments(manager, 1, UpdateAssignmentsDTO{ClientIDs: []int64{3, 3}})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("requires the staff assignments permission", func() {
			_, err := service.UpdateAssignments(worker, 1, UpdateAssignmentsDTO{ClientIDs: []int64{3}})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
		})

		ginkgo.It("fails for a missing staff member", func() {
			_, err := service.UpdateAssignments(manager, 404, UpdateAssignmentsDTO{ClientIDs: []int64{3}})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("UpdateStaff", func() {
		ginkgo.It("normalizes the email and trims the name", func() {
			gomega.Expect(repo.Create(&userDatamodel.User{Name: "Old", Email: "old@example.com"}, nil)).To(gomega.Succeed())

			member, err := service.UpdateStaff(manager, 1, UpdateStaffDTO{Name: "  New Name  ", Email: "NEW@Example.com"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(member.Name).To(gomega.Equal("New Name"))
			gomega.Expect(member.Email).To(gomega.Equal("new@example.com"))
		})

		ginkgo.It("requires staff.update", func() {
			_, err := service.UpdateStaff(worker, 1, UpdateStaffDTO{Name: "X", Email: "x@example.com"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
		})
	})
})
