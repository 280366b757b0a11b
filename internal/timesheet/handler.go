package timesheet

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/transport"
)

type ServiceAPI interface {
	CreateTimesheet(user *internal.User, dto CreateTimesheetDTO) (*Timesheet, error)
	GetTimesheet(user *internal.User, id int64) (*Timesheet, error)
	UpdateTimesheet(user *internal.User, id int64, dto UpdateTimesheetDTO) (*Timesheet, error)
	Decide(user *internal.User, id int64, dto DecisionDTO) (*Timesheet, error)
	ListTimesheets(user *internal.User, filter ListFilter) ([]*Timesheet, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(logger *slog.Logger, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
	}
}

// CreateTimesheet records worked hours, optionally seeded from a shift
// @Summary Create timesheet
// @Tags timesheets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTimesheetDTO true "Timesheet"
// @Success 201 {object} Timesheet
// @Router /timesheets [post]
func (h *Handler) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto CreateTimesheetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ts, err := h.Service.CreateTimesheet(user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ts)
}

func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid timesheet id")
		return
	}

	ts, err := h.Service.GetTimesheet(user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ts)
}

func (h *Handler) UpdateTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid timesheet id")
		return
	}

	var dto UpdateTimesheetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ts, err := h.Service.UpdateTimesheet(user, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ts)
}

// Approve marks a timesheet approved
// @Summary Approve timesheet
// @Tags timesheets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Timesheet ID"
// @Success 200 {object} Timesheet
// @Failure 403 {object} map[string]interface{}
// @Router /timesheets/{id}/approve [post]
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, DecisionDTO{Approve: true})
}

// Reject marks a timesheet rejected
// @Summary Reject timesheet
// @Tags timesheets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Timesheet ID"
// @Success 200 {object} Timesheet
// @Failure 403 {object} map[string]interface{}
// @Router /timesheets/{id}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, DecisionDTO{Reject: true})
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, dto DecisionDTO) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid timesheet id")
		return
	}

	ts, err := h.Service.Decide(user, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ts)
}

// ListTimesheets returns timesheets under the caller's scope
// @Summary List timesheets
// @Tags timesheets
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param date_from query string false "Work date from (YYYY-MM-DD)"
// @Param date_to query string false "Work date to (YYYY-MM-DD)"
// @Success 200 {array} Timesheet
// @Router /timesheets [get]
func (h *Handler) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	timesheets, err := h.Service.ListTimesheets(user, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, timesheets)
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	var filter ListFilter
	q := r.URL.Query()

	filter.Status = q.Get("status")

	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errBadDate("date_from")
		}
		filter.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errBadDate("date_to")
		}
		filter.DateTo = &t
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	return filter, nil
}

type filterError string

func (e filterError) Error() string { return string(e) }

func errBadDate(name string) error {
	return filterError(name + " must be YYYY-MM-DD")
}
