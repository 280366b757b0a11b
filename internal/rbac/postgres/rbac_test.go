package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/rbac"
	rbacPostgres "github.com/frahmantamala/care-roster/internal/rbac/postgres"
)

func TestRBACPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RBAC Postgres Suite")
}

// SQLite-compatible models for testing
type SQLiteUser struct {
	ID           int64      `gorm:"primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	LegacyRole   string     `gorm:"column:role"`
	ApprovedAt   *time.Time `gorm:"column:approved_at"`
	ApprovedBy   *int64     `gorm:"column:approved_by"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string { return "users" }

type SQLiteRole struct {
	ID    int64  `gorm:"primaryKey"`
	Name  string `gorm:"column:name;uniqueIndex;not null"`
	Label string `gorm:"column:label;not null"`
}

func (SQLiteRole) TableName() string { return "roles" }

type SQLitePermission struct {
	ID          int64  `gorm:"primaryKey"`
	Key         string `gorm:"column:key;uniqueIndex;not null"`
	Description string `gorm:"column:description"`
}

func (SQLitePermission) TableName() string { return "permissions" }

type SQLiteRoleUser struct {
	ID     int64 `gorm:"primaryKey"`
	RoleID int64 `gorm:"column:role_id;not null;uniqueIndex:idx_role_user"`
	UserID int64 `gorm:"column:user_id;not null;uniqueIndex:idx_role_user"`
}

func (SQLiteRoleUser) TableName() string { return "role_user" }

type SQLiteRolePermission struct {
	ID           int64 `gorm:"primaryKey"`
	RoleID       int64 `gorm:"column:role_id;not null;uniqueIndex:idx_role_permission"`
	PermissionID int64 `gorm:"column:permission_id;not null;uniqueIndex:idx_role_permission"`
}

func (SQLiteRolePermission) TableName() string { return "role_permission" }

type SQLitePermissionOverride struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:idx_permission_user"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_permission_user"`
	Allowed      bool      `gorm:"column:allowed;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLitePermissionOverride) TableName() string { return "permission_user" }

var _ = Describe("RBAC PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo rbac.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&SQLiteUser{},
			&SQLiteRole{},
			&SQLitePermission{},
			&SQLiteRoleUser{},
			&SQLiteRolePermission{},
			&SQLitePermissionOverride{},
		)
		Expect(err).NotTo(HaveOccurred())

		// Shared fixture: catalogs plus one worker holding the support
		// worker role which grants shifts.viewAny.
		Expect(db.Create(&SQLiteRole{ID: 1, Name: rbac.RoleSupportWorker, Label: "Support Worker"}).Error).To(Succeed())
		Expect(db.Create(&SQLitePermission{ID: 1, Key: rbac.PermShiftsViewAny, Description: "View shifts"}).Error).To(Succeed())
		Expect(db.Create(&SQLitePermission{ID: 2, Key: rbac.PermTimesheetsApprove, Description: "Approve timesheets"}).Error).To(Succeed())
		Expect(db.Create(&SQLiteRolePermission{RoleID: 1, PermissionID: 1}).Error).To(Succeed())

		Expect(db.Create(&SQLiteUser{
			ID: 10, Name: "Sam Worker", Email: "sam@example.com", PasswordHash: "x",
		}).Error).To(Succeed())
		Expect(db.Create(&SQLiteRoleUser{RoleID: 1, UserID: 10}).Error).To(Succeed())

		repo = rbacPostgres.NewRepository(db)
	})

	Describe("OverrideModeFor", func() {
		It("returns inherit when no override row exists", func() {
			mode, err := repo.OverrideModeFor(10, rbac.PermShiftsViewAny)
			Expect(err).NotTo(HaveOccurred())
			Expect(mode).To(Equal(rbac.OverrideInherit))
		})

		It("returns allow and deny for existing rows", func() {
			Expect(db.Create(&SQLitePermissionOverride{UserID: 10, PermissionID: 2, Allowed: true}).Error).To(Succeed())
			mode, err := repo.OverrideModeFor(10, rbac.PermTimesheetsApprove)
			Expect(err).NotTo(HaveOccurred())
			Expect(mode).To(Equal(rbac.OverrideAllow))

			Expect(db.Model(&SQLitePermissionOverride{}).
				Where("user_id = ? AND permission_id = ?", 10, 2).
				Update("allowed", false).Error).To(Succeed())
			mode, err = repo.OverrideModeFor(10, rbac.PermTimesheetsApprove)
			Expect(err).NotTo(HaveOccurred())
			Expect(mode).To(Equal(rbac.OverrideDeny))
		})
	})

	Describe("RoleGrants", func() {
		It("reports grants that flow through the role", func() {
			granted, err := repo.RoleGrants(10, rbac.PermShiftsViewAny)
			Expect(err).NotTo(HaveOccurred())
			Expect(granted).To(BeTrue())

			granted, err = repo.RoleGrants(10, rbac.PermTimesheetsApprove)
			Expect(err).NotTo(HaveOccurred())
			Expect(granted).To(BeFalse())
		})
	})

	Describe("SetOverride", func() {
		It("keeps a single row per user/permission pair across repeated writes", func() {
			Expect(repo.SetOverride(10, 2, true)).To(Succeed())
			Expect(repo.SetOverride(10, 2, false)).To(Succeed())

			var count int64
			Expect(db.Model(&SQLitePermissionOverride{}).
				Where("user_id = ? AND permission_id = ?", 10, 2).
				Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))

			mode, err := repo.OverrideModeFor(10, rbac.PermTimesheetsApprove)
			Expect(err).NotTo(HaveOccurred())
			Expect(mode).To(Equal(rbac.OverrideDeny))
		})
	})

	Describe("ClearOverride", func() {
		It("removes the row so resolution falls back to roles", func() {
			Expect(repo.SetOverride(10, 1, false)).To(Succeed())
			Expect(repo.ClearOverride(10, 1)).To(Succeed())

			mode, err := repo.OverrideModeFor(10, rbac.PermShiftsViewAny)
			Expect(err).NotTo(HaveOccurred())
			Expect(mode).To(Equal(rbac.OverrideInherit))
		})

		It("is a no-op when no row exists", func() {
			Expect(repo.ClearOverride(10, 1)).To(Succeed())
		})
	})

	Describe("ReplaceRoles", func() {
		BeforeEach(func() {
			Expect(db.Create(&SQLiteRole{ID: 2, Name: rbac.RoleProviderManager, Label: "Provider Manager"}).Error).To(Succeed())
		})

		It("swaps the whole role set and updates the legacy label", func() {
			Expect(repo.ReplaceRoles(10, []int64{2}, rbac.RoleProviderManager)).To(Succeed())

			var links []SQLiteRoleUser
			Expect(db.Where("user_id = ?", 10).Find(&links).Error).To(Succeed())
			Expect(links).To(HaveLen(1))
			Expect(links[0].RoleID).To(Equal(int64(2)))

			var u SQLiteUser
			Expect(db.First(&u, 10).Error).To(Succeed())
			Expect(u.LegacyRole).To(Equal(rbac.RoleProviderManager))
		})

		It("leaves the user with no roles when the set is empty", func() {
			Expect(repo.ReplaceRoles(10, nil, rbac.RoleSupportWorker)).To(Succeed())

			var count int64
			Expect(db.Model(&SQLiteRoleUser{}).Where("user_id = ?", 10).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})
	})

	Describe("MarkApproved", func() {
		It("stamps a pending account", func() {
			Expect(repo.MarkApproved(10, 1, time.Now())).To(Succeed())

			var u SQLiteUser
			Expect(db.First(&u, 10).Error).To(Succeed())
			Expect(u.ApprovedAt).NotTo(BeNil())
			Expect(*u.ApprovedBy).To(Equal(int64(1)))
		})

		It("never overwrites an existing approval stamp", func() {
			first := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
			Expect(repo.MarkApproved(10, 1, first)).To(Succeed())
			Expect(repo.MarkApproved(10, 99, time.Now())).To(Succeed())

			var u SQLiteUser
			Expect(db.First(&u, 10).Error).To(Succeed())
			Expect(u.ApprovedAt.UTC()).To(Equal(first))
			Expect(*u.ApprovedBy).To(Equal(int64(1)))
		})
	})

	Describe("GetUserAccess", func() {
		It("loads roles and overrides for the user", func() {
			Expect(repo.SetOverride(10, 2, true)).To(Succeed())

			ua, err := repo.GetUserAccess(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ua.Email).To(Equal("sam@example.com"))
			Expect(ua.Roles).To(HaveLen(1))
			Expect(ua.Roles[0].Name).To(Equal(rbac.RoleSupportWorker))
			Expect(ua.Overrides).To(HaveKeyWithValue(int64(2), true))
		})

		It("maps a missing user to the not-found error", func() {
			_, err := repo.GetUserAccess(404)
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("RolePermissionKeys", func() {
		It("deduplicates keys granted by multiple roles", func() {
			Expect(db.Create(&SQLiteRole{ID: 2, Name: "second", Label: "Second"}).Error).To(Succeed())
			Expect(db.Create(&SQLiteRolePermission{RoleID: 2, PermissionID: 1}).Error).To(Succeed())
			Expect(db.Create(&SQLiteRoleUser{RoleID: 2, UserID: 10}).Error).To(Succeed())

			keys, err := repo.RolePermissionKeys(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(keys).To(Equal([]string{rbac.PermShiftsViewAny}))
		})
	})
})
