package rbac

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/pkg/logger"
)

var _ = ginkgo.Describe("Access Service", func() {
	var (
		repo    *mockRepository
		service *Service

		adminPerms  []string
		workerPerms []string
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo, logger.L())

		adminPerms = []string{PermSettingsAccessManage}
		workerPerms = []string{PermShiftsViewAny, PermTimesheetsCreate}

		repo.roles = []Role{
			{ID: 1, Name: RoleAdmin},
			{ID: 2, Name: RoleProviderManager},
			{ID: 3, Name: RoleSupportWorker},
		}
		repo.users[10] = &UserAccess{ID: 10, Name: "Sam Worker", Email: "sam@example.com"}
	})

	ginkgo.Describe("ListAccess", func() {
		ginkgo.It("rejects actors without settings.access.manage", func() {
			_, err := service.ListAccess(workerPerms)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
		})

		ginkgo.It("returns users with the role and permission catalogs", func() {
			page, err := service.ListAccess(adminPerms)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(page.Users).To(gomega.HaveLen(1))
			gomega.Expect(page.Roles).To(gomega.HaveLen(3))
		})
	})

	ginkgo.Describe("SetUserAccess", func() {
		ginkgo.It("rejects actors without settings.access.manage", func() {
			err := service.SetUserAccess(5, workerPerms, 10, UpdateAccessDTO{RoleIDs: []int64{3}})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
			gomega.Expect(repo.replacedRoles).To(gomega.BeEmpty())
		})

		ginkgo.It("replaces the whole role set and refreshes the legacy role label", func() {
			err := service.SetUserAccess(1, adminPerms, 10, UpdateAccessDTO{RoleIDs: []int64{2, 3}})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.replacedRoles[10]).To(gomega.Equal([]int64{2, 3}))
			gomega.Expect(repo.replacedLegacy[10]).To(gomega.Equal(RoleProviderManager))
		})

		ginkgo.It("falls back to the support worker label when all roles are removed", func() {
			err := service.SetUserAccess(1, adminPerms, 10, UpdateAccessDTO{RoleIDs: nil})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.replacedLegacy[10]).To(gomega.Equal(RoleSupportWorker))
		})

		ginkgo.It("fails with role not found when a role ID does not exist", func() {
			err := service.SetUserAccess(1, adminPerms, 10, UpdateAccessDTO{RoleIDs: []int64{99}})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoleNotFound))
			gomega.Expect(repo.replacedRoles).To(gomega.BeEmpty())
		})

		ginkgo.It("writes allow and deny overrides and clears inherit ones", func() {
			err := service.SetUserAccess(1, adminPerms, 10, UpdateAccessDTO{
				RoleIDs: []int64{3},
				Overrides: map[int64]string{
					7: "allow",
					8: "deny",
					9: "inherit",
				},
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.setOverrides).To(gomega.ConsistOf(
				setOverrideCall{userID: 10, permissionID: 7, allowed: true},
				setOverrideCall{userID: 10, permissionID: 8, allowed: false},
			))
			gomega.Expect(repo.clearedPairs).To(gomega.ConsistOf(
				clearCall{userID: 10, permissionID: 9},
			))
		})

		ginkgo.It("rejects an unknown override mode before touching roles", func() {
			err := service.SetUserAccess(1, adminPerms, 10, UpdateAccessDTO{
				RoleIDs:   []int64{3},
				Overrides: map[int64]string{7: "maybe"},
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.replacedRoles).To(gomega.BeEmpty())
		})

		ginkgo.It("fails when the target user does not exist", func() {
			err := service.SetUserAccess(1, adminPerms, 404, UpdateAccessDTO{RoleIDs: []int64{3}})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("ApproveUser", func() {
		ginkgo.It("requires at least one role", func() {
			err := service.ApproveUser(1, adminPerms, 10, ApproveUserDTO{})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRolesRequired))
			gomega.Expect(repo.approvedAt[10]).To(gomega.BeNil())
		})

		ginkgo.It("rejects actors without settings.access.manage", func() {
			err := service.ApproveUser(5, workerPerms, 10, ApproveUserDTO{RoleIDs: []int64{3}})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
			gomega.Expect(repo.approvedAt[10]).To(gomega.BeNil())
		})

		ginkgo.It("assigns roles and stamps approval", func() {
			err := service.ApproveUser(1, adminPerms, 10, ApproveUserDTO{RoleIDs: []int64{3}})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.replacedRoles[10]).To(gomega.Equal([]int64{3}))
			gomega.Expect(repo.approvedAt[10]).NotTo(gomega.BeNil())
		})

		ginkgo.It("does not stamp approval when role assignment fails", func() {
			err := service.ApproveUser(1, adminPerms, 10, ApproveUserDTO{RoleIDs: []int64{99}})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoleNotFound))
			gomega.Expect(repo.approvedAt[10]).To(gomega.BeNil())
		})
	})
})
