package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/care-roster/internal/auth"
	"github.com/frahmantamala/care-roster/internal/client"
	"github.com/frahmantamala/care-roster/internal/rbac"
	"github.com/frahmantamala/care-roster/internal/settings"
	"github.com/frahmantamala/care-roster/internal/shift"
	"github.com/frahmantamala/care-roster/internal/staff"
	"github.com/frahmantamala/care-roster/internal/timesheet"
	"github.com/frahmantamala/care-roster/internal/transport/middleware"
	"github.com/frahmantamala/care-roster/internal/transport/swagger"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth      *auth.Handler
	Staff     *staff.Handler
	Client    *client.Handler
	Shift     *shift.Handler
	Timesheet *timesheet.Handler
	Access    *rbac.Handler
	Settings  *settings.Handler
}

// RegisterAllRoutes wires the /api/v1 surface. Route guards are coarse
// permission checks; services re-check ownership and record-level rules.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, authService auth.ServiceAPI, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/sso/{provider}/callback", h.Auth.SSOCallback)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything below requires an authenticated, approved principal.
		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(authService, logger))

			pr.Get("/users/me", h.Auth.GetCurrentUser)

			pr.Route("/staff", func(sr chi.Router) {
				sr.With(middleware.RequirePermissions(rbac.PermStaffViewAny)).Get("/", h.Staff.ListStaff)
				sr.With(middleware.RequirePermissions(rbac.PermStaffViewAny)).Get("/{id}", h.Staff.GetStaff)
				sr.With(middleware.RequirePermissions(rbac.PermStaffInvite, rbac.PermStaffCreate)).Post("/", h.Staff.InviteStaff)
				sr.With(middleware.RequirePermissions(rbac.PermStaffUpdate)).Put("/{id}", h.Staff.UpdateStaff)
				sr.With(middleware.RequirePermissions(rbac.PermStaffAssignmentsUpdate)).Put("/{id}/assignments", h.Staff.UpdateAssignments)
			})

			pr.Route("/clients", func(cr chi.Router) {
				cr.With(middleware.RequirePermissions(rbac.PermClientsViewAny)).Get("/", h.Client.ListClients)
				cr.With(middleware.RequirePermissions(rbac.PermClientsViewAny)).Get("/{id}", h.Client.GetClient)
				cr.With(middleware.RequirePermissions(rbac.PermClientsCreate)).Post("/", h.Client.CreateClient)
				cr.With(middleware.RequirePermissions(rbac.PermClientsUpdate)).Put("/{id}", h.Client.UpdateClient)
				cr.With(middleware.RequirePermissions(rbac.PermClientsAssignmentsUpdate)).Put("/{id}/assignments", h.Client.UpdateAssignments)
			})

			pr.Route("/shifts", func(sr chi.Router) {
				sr.With(middleware.RequirePermissions(rbac.PermShiftsViewAny)).Get("/", h.Shift.ListShifts)
				sr.With(middleware.RequirePermissions(rbac.PermShiftsViewAny)).Get("/{id}", h.Shift.GetShift)
				sr.With(middleware.RequirePermissions(rbac.PermShiftsCreate)).Post("/", h.Shift.CreateShift)
				sr.With(middleware.RequirePermissions(rbac.PermShiftsUpdate)).Put("/{id}", h.Shift.UpdateShift)
				sr.With(middleware.RequirePermissions(rbac.PermShiftsUpdate)).Patch("/{id}", h.Shift.PartialUpdateShift)
			})

			pr.With(middleware.RequirePermissions(rbac.PermCalendarViewAny)).Get("/calendar/events", h.Shift.CalendarEvents)

			pr.Route("/timesheets", func(tr chi.Router) {
				tr.With(middleware.RequirePermissions(rbac.PermTimesheetsViewAny)).Get("/", h.Timesheet.ListTimesheets)
				tr.With(middleware.RequirePermissions(rbac.PermTimesheetsViewAny)).Get("/{id}", h.Timesheet.GetTimesheet)
				tr.With(middleware.RequirePermissions(rbac.PermTimesheetsCreate)).Post("/", h.Timesheet.CreateTimesheet)
				tr.With(middleware.RequirePermissions(rbac.PermTimesheetsUpdate)).Put("/{id}", h.Timesheet.UpdateTimesheet)
				tr.With(middleware.RequirePermissions(rbac.PermTimesheetsApprove, rbac.PermTimesheetsManageAny)).Post("/{id}/approve", h.Timesheet.Approve)
				tr.With(middleware.RequirePermissions(rbac.PermTimesheetsApprove, rbac.PermTimesheetsManageAny)).Post("/{id}/reject", h.Timesheet.Reject)
			})

			pr.Route("/settings", func(sr chi.Router) {
				sr.Route("/access", func(ar chi.Router) {
					ar.Use(middleware.RequirePermissions(rbac.PermSettingsAccessManage))
					ar.Get("/", h.Access.ListAccess)
					ar.Put("/{id}", h.Access.UpdateAccess)
					ar.Post("/{id}/approve", h.Access.ApproveUser)
				})

				sr.Get("/branding", h.Settings.GetBranding)
				sr.With(middleware.RequirePermissions(rbac.PermSettingsBrandingManage)).Put("/branding", h.Settings.UpdateBranding)
				sr.Get("/terminology", h.Settings.GetTerminology)
				sr.With(middleware.RequirePermissions(rbac.PermSettingsTerminologyManage)).Put("/terminology", h.Settings.UpdateTerminology)
			})
		})
	})
}
