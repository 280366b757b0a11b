package shift

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
	CreateShift(user *internal.User, dto CreateShiftDTO) (*Shift, error)
	GetShift(user *internal.User, id int64) (*Shift, error)
	UpdateShift(user *internal.User, id int64, dto UpdateShiftDTO) (*Shift, error)
	PartialUpdateShift(user *internal.User, id int64, dto PartialUpdateShiftDTO) (*Shift, error)
	ListForDay(user *internal.User, day time.Time) ([]*Shift, error)
	CalendarEvents(user *internal.User, filter EventFilter) ([]*CalendarEvent, error)
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

// CreateShift schedules a new shift
// @Summary Create shift
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateShiftDTO true "Shift"
// @Success 201 {object} Shift
// @Router /shifts [post]
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto CreateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sh, err := h.Service.CreateShift(user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, sh)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shift id")
		return
	}

	sh, err := h.Service.GetShift(user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sh)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shift id")
		return
	}

	var dto UpdateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sh, err := h.Service.UpdateShift(user, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sh)
}

// PartialUpdateShift applies a sparse update from calendar drag or resize
// @Summary Partially update shift
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Shift ID"
// @Param request body PartialUpdateShiftDTO true "Changed fields"
// @Success 200 {object} Shift
// @Failure 422 {object} map[string]interface{}
// @Router /shifts/{id} [patch]
func (h *Handler) PartialUpdateShift(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shift id")
		return
	}

	var dto PartialUpdateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sh, err := h.Service.PartialUpdateShift(user, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sh)
}

// ListShifts returns the shifts for one calendar day
// @Summary List shifts for a day
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {array} Shift
// @Router /shifts [get]
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	dateStr := r.URL.Query().Get("date")
	day := time.Now()
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	shifts, err := h.Service.ListForDay(user, day)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, shifts)
}

// CalendarEvents serves the calendar window feed
// @Summary Calendar events
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param from query string true "Window start (RFC3339)"
// @Param to query string true "Window end (RFC3339)"
// @Param staff_id query int false "Filter by staff (managers only)"
// @Param client_id query int false "Filter by client (managers only)"
// @Success 200 {array} CalendarEvent
// @Router /calendar/events [get]
func (h *Handler) CalendarEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filter, err := parseEventFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.Service.CalendarEvents(user, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, events)
}

func parseEventFilter(r *http.Request) (EventFilter, error) {
	var filter EventFilter

	q := r.URL.Query()

	from, err := parseTimeParam(q.Get("from"))
	if err != nil {
		return filter, err
	}
	to, err := parseTimeParam(q.Get("to"))
	if err != nil {
		return filter, err
	}
	filter.From = from
	filter.To = to

	if v := q.Get("staff_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errInvalidQueryParam("staff_id")
		}
		filter.StaffID = &id
	}
	if v := q.Get("client_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errInvalidQueryParam("client_id")
		}
		filter.ClientID = &id
	}

	return filter, nil
}

// parseTimeParam accepts RFC3339 or a bare date.
func parseTimeParam(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Time{}, errInvalidQueryParam("time window")
}

type queryParamError string

func (e queryParamError) Error() string { return string(e) }

func errInvalidQueryParam(name string) error {
	return queryParamError("invalid " + name + " parameter")
}
