package shift

import (
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/rbac"
	"github.com/frahmantamala/care-roster/pkg/logger"
)

func TestShift(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Shift Module Suite")
}

type mockRepository struct {
	shifts map[int64]*Shift
	nextID int64

	lastScope  rbac.Scope
	lastFilter EventFilter
	events     []*CalendarEvent
	updated    []*Shift
}

func newMockRepository() *mockRepository {
	return &mockRepository{shifts: make(map[int64]*Shift), nextID: 1}
}

func (m *mockRepository) Create(sh *Shift) error {
	sh.ID = m.nextID
	m.nextID++
	m.shifts[sh.ID] = sh
	return nil
}

func (m *mockRepository) GetByID(id int64) (*Shift, error) {
	if sh, ok := m.shifts[id]; ok {
		copied := *sh
		return &copied, nil
	}
	return nil, internal.ErrShiftNotFound
}

func (m *mockRepository) Update(sh *Shift) error {
	m.shifts[sh.ID] = sh
	m.updated = append(m.updated, sh)
	return nil
}

func (m *mockRepository) ListForDay(scope rbac.Scope, day time.Time) ([]*Shift, error) {
	m.lastScope = scope
	var out []*Shift
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	for _, sh := range m.shifts {
		if !scope.Global && sh.UserID != scope.UserID {
			continue
		}
		if sh.StartsAt.Before(dayEnd) && sh.EndsAt.After(dayStart) {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (m *mockRepository) CalendarEvents(scope rbac.Scope, filter EventFilter) ([]*CalendarEvent, error) {
	m.lastScope = scope
	m.lastFilter = filter
	return m.events, nil
}

func workerUser(id int64) *internal.User {
	return &internal.User{
		ID:    id,
		Roles: []string{rbac.RoleSupportWorker},
		Permissions: []string{
			rbac.PermShiftsViewAny,
			rbac.PermShiftsCreate,
			rbac.PermShiftsUpdate,
			rbac.PermCalendarViewAny,
		},
	}
}

func managerUser(id int64) *internal.User {
	u := workerUser(id)
	u.Roles = []string{rbac.RoleProviderManager}
	u.Permissions = append(u.Permissions, rbac.PermShiftsManageAny)
	return u
}

var _ = ginkgo.Describe("Shift Service", func() {
	var (
		repo    *mockRepository
		service *Service

		worker  *internal.User
		manager *internal.User

		baseStart time.Time
		baseEnd   time.Time
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo, logger.L())

		worker = workerUser(5)
		manager = managerUser(1)

		baseStart = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
		baseEnd = baseStart.Add(8 * time.Hour)
	})

	seedShift := func(staffID int64) *Shift {
		sh := &Shift{ClientID: 3, UserID: staffID, StartsAt: baseStart, EndsAt: baseEnd, Status: StatusScheduled}
		gomega.Expect(repo.Create(sh)).To(gomega.Succeed())
		return sh
	}

	ginkgo.Describe("CreateShift", func() {
		ginkgo.It("creates a scheduled shift stamped with the creator", func() {
			sh, err := service.CreateShift(manager, CreateShiftDTO{
				ClientID: 3, UserID: 5, StartsAt: baseStart, EndsAt: baseEnd,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(sh.Status).To(gomega.Equal(StatusScheduled))
			gomega.Expect(*sh.CreatedBy).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("rejects a window that does not end after it starts", func() {
			_, err := service.CreateShift(manager, CreateShiftDTO{
				ClientID: 3, UserID: 5, StartsAt: baseEnd, EndsAt: baseStart,
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidTimeRange))

			_, err = service.CreateShift(manager, CreateShiftDTO{
				ClientID: 3, UserID: 5, StartsAt: baseStart, EndsAt: baseStart,
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidTimeRange))
		})

		ginkgo.It("honors an explicit initial status", func() {
			sh, err := service.CreateShift(manager, CreateShiftDTO{
				ClientID: 3, UserID: 5, StartsAt: baseStart, EndsAt: baseEnd,
				Status: StatusCompleted,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(sh.Status).To(gomega.Equal(StatusCompleted))
		})

		ginkgo.It("rejects an unknown initial status", func() {
			_, err := service.CreateShift(manager, CreateShiftDTO{
				ClientID: 3, UserID: 5, StartsAt: baseStart, EndsAt: baseEnd,
				Status: "archived",
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("requires shifts.create", func() {
			viewer := &internal.User{ID: 9, Permissions: []string{rbac.PermShiftsViewAny}}
			_, err := service.CreateShift(viewer, CreateShiftDTO{
				ClientID: 3, UserID: 5, StartsAt: baseStart, EndsAt: baseEnd,
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
		})
	})

	ginkgo.Describe("GetShift", func() {
		ginkgo.It("hides another worker's shift behind not-found", func() {
			sh := seedShift(8)
			_, err := service.GetShift(worker, sh.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrShiftNotFound))
		})

		ginkgo.It("lets a manager read any shift", func() {
			sh := seedShift(8)
			got, err := service.GetShift(manager, sh.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.ID).To(gomega.Equal(sh.ID))
		})
	})

	ginkgo.Describe("UpdateShift", func() {
		ginkgo.It("denies a worker editing another worker's shift", func() {
			sh := seedShift(8)
			_, err := service.UpdateShift(worker, sh.ID, UpdateShiftDTO{
				ClientID: 3, UserID: 8, StartsAt: baseStart, EndsAt: baseEnd,
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotRecordOwner))
			gomega.Expect(repo.updated).To(gomega.BeEmpty())
		})

		ginkgo.It("lets the assigned worker edit their own shift", func() {
			sh := seedShift(5)
			updated, err := service.UpdateShift(worker, sh.ID, UpdateShiftDTO{
				ClientID: 3, UserID: 5, StartsAt: baseStart, EndsAt: baseEnd.Add(time.Hour),
				Status: StatusCompleted,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(updated.EndsAt).To(gomega.Equal(baseEnd.Add(time.Hour)))
			gomega.Expect(updated.Status).To(gomega.Equal(StatusCompleted))
		})

		ginkgo.It("lets a manager edit anyone's shift", func() {
			sh := seedShift(8)
			_, err := service.UpdateShift(manager, sh.ID, UpdateShiftDTO{
				ClientID: 3, UserID: 8, StartsAt: baseStart, EndsAt: baseEnd,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("rejects an invalid status value", func() {
			sh := seedShift(5)
			_, err := service.UpdateShift(worker, sh.ID, UpdateShiftDTO{
				ClientID: 3, UserID: 5, StartsAt: baseStart, EndsAt: baseEnd,
				Status: "archived",
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("PartialUpdateShift", func() {
		ginkgo.It("rejects a lone start time", func() {
			sh := seedShift(5)
			newStart := baseStart.Add(time.Hour)
			_, err := service.PartialUpdateShift(worker, sh.ID, PartialUpdateShiftDTO{StartsAt: &newStart})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrIncompleteTime))
		})

		ginkgo.It("rejects a lone end time", func() {
			sh := seedShift(5)
			newEnd := baseEnd.Add(time.Hour)
			_, err := service.PartialUpdateShift(worker, sh.ID, PartialUpdateShiftDTO{EndsAt: &newEnd})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrIncompleteTime))
		})

		ginkgo.It("validates the merged window, not just the request", func() {
			sh := seedShift(5)
			badStart := baseEnd.Add(time.Hour)
			badEnd := baseEnd.Add(30 * time.Minute)
			_, err := service.PartialUpdateShift(worker, sh.ID, PartialUpdateShiftDTO{
				StartsAt: &badStart, EndsAt: &badEnd,
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidTimeRange))
			gomega.Expect(repo.updated).To(gomega.BeEmpty())
		})

		ginkgo.It("applies a drag that moves both bounds", func() {
			sh := seedShift(5)
			newStart := baseStart.Add(2 * time.Hour)
			newEnd := baseEnd.Add(2 * time.Hour)
			updated, err := service.PartialUpdateShift(worker, sh.ID, PartialUpdateShiftDTO{
				StartsAt: &newStart, EndsAt: &newEnd,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(updated.StartsAt).To(gomega.Equal(newStart))
			gomega.Expect(updated.EndsAt).To(gomega.Equal(newEnd))
		})

		ginkgo.It("leaves untouched fields alone", func() {
			location := "12 Elm St"
			sh := seedShift(5)
			sh.Location = &location
			repo.shifts[sh.ID] = sh

			status := StatusCancelled
			updated, err := service.PartialUpdateShift(worker, sh.ID, PartialUpdateShiftDTO{Status: &status})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(updated.Status).To(gomega.Equal(StatusCancelled))
			gomega.Expect(updated.StartsAt).To(gomega.Equal(baseStart))
			gomega.Expect(*updated.Location).To(gomega.Equal(location))
		})

		ginkgo.It("denies a non-owner without manageAny", func() {
			sh := seedShift(8)
			status := StatusCancelled
			_, err := service.PartialUpdateShift(worker, sh.ID, PartialUpdateShiftDTO{Status: &status})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotRecordOwner))
		})
	})

	ginkgo.Describe("ListForDay", func() {
		ginkgo.It("scopes a worker to their own shifts", func() {
			seedShift(5)
			seedShift(8)

			shifts, err := service.ListForDay(worker, baseStart)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(shifts).To(gomega.HaveLen(1))
			gomega.Expect(shifts[0].UserID).To(gomega.Equal(int64(5)))
		})

		ginkgo.It("gives a manager the full day", func() {
			seedShift(5)
			seedShift(8)

			shifts, err := service.ListForDay(manager, baseStart)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(shifts).To(gomega.HaveLen(2))
			gomega.Expect(repo.lastScope.Global).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("CalendarEvents", func() {
		ginkgo.It("rejects a missing or inverted window", func() {
			_, err := service.CalendarEvents(manager, EventFilter{})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidTimeRange))

			_, err = service.CalendarEvents(manager, EventFilter{From: baseEnd, To: baseStart})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidTimeRange))
		})

		ginkgo.It("strips staff and client filters for a scoped user", func() {
			staffID := int64(8)
			clientID := int64(3)
			_, err := service.CalendarEvents(worker, EventFilter{
				From: baseStart, To: baseEnd, StaffID: &staffID, ClientID: &clientID,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.lastFilter.StaffID).To(gomega.BeNil())
			gomega.Expect(repo.lastFilter.ClientID).To(gomega.BeNil())
			gomega.Expect(repo.lastScope.Global).To(gomega.BeFalse())
			gomega.Expect(repo.lastScope.UserID).To(gomega.Equal(int64(5)))
		})

		ginkgo.It("honors filters for a global user", func() {
			staffID := int64(8)
			_, err := service.CalendarEvents(manager, EventFilter{
				From: baseStart, To: baseEnd, StaffID: &staffID,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.lastFilter.StaffID).To(gomega.Equal(&staffID))
			gomega.Expect(repo.lastScope.Global).To(gomega.BeTrue())
		})

		ginkgo.It("requires calendar.viewAny", func() {
			plain := &internal.User{ID: 9, Permissions: []string{rbac.PermShiftsViewAny}}
			_, err := service.CalendarEvents(plain, EventFilter{From: baseStart, To: baseEnd})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
		})
	})
})
