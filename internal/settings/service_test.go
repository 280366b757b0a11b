package settings

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/rbac"
	"github.com/frahmantamala/care-roster/pkg/logger"
)

func TestSettings(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Settings Module Suite")
}

type mockRepository struct {
	values map[string]string
}

func (m *mockRepository) GetAll(keys []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *mockRepository) Upsert(key, value string) error {
	m.values[key] = value
	return nil
}

var _ = ginkgo.Describe("Settings Service", func() {
	var (
		repo    *mockRepository
		service *Service

		admin  *internal.User
		worker *internal.User
	)

	ginkgo.BeforeEach(func() {
		repo = &mockRepository{values: map[string]string{
			"branding.provider_name":   "Sunrise Support",
			"terminology.client_label": "participant",
		}}
		service = NewService(repo, logger.L())

		admin = &internal.User{
			ID: 1,
			Permissions: []string{
				rbac.PermSettingsBrandingManage,
				rbac.PermSettingsTerminologyManage,
			},
		}
		worker = &internal.User{ID: 5, Permissions: []string{rbac.PermShiftsViewAny}}
	})

	ginkgo.Describe("GetGroup", func() {
		ginkgo.It("returns stored values for a known group", func() {
			values, err := service.GetGroup(GroupBranding)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(values).To(gomega.HaveKeyWithValue("branding.provider_name", "Sunrise Support"))
		})

		ginkgo.It("rejects an unknown group", func() {
			_, err := service.GetGroup("billing")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("UpdateGroup", func() {
		ginkgo.It("writes known keys and returns the refreshed group", func() {
			values, err := service.UpdateGroup(admin, GroupTerminology, map[string]string{
				"terminology.worker_label": "support buddy",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(values).To(gomega.HaveKeyWithValue("terminology.worker_label", "support buddy"))
			gomega.Expect(values).To(gomega.HaveKeyWithValue("terminology.client_label", "participant"))
		})

		ginkgo.It("rejects a key outside the group's allow list", func() {
			_, err := service.UpdateGroup(admin, GroupBranding, map[string]string{
				"branding.secret_flag": "on",
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.values).NotTo(gomega.HaveKey("branding.secret_flag"))
		})

		ginkgo.It("requires the group's manage permission", func() {
			_, err := service.UpdateGroup(worker, GroupBranding, map[string]string{
				"branding.provider_name": "Hijacked",
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
			gomega.Expect(repo.values["branding.provider_name"]).To(gomega.Equal("Sunrise Support"))
		})

		ginkgo.It("denies unknown groups for everyone", func() {
			_, err := service.UpdateGroup(admin, "billing", nil)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
		})
	})
})
