package settings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/transport"
)

type ServiceAPI interface {
	GetGroup(group string) (map[string]string, error)
	UpdateGroup(user *internal.User, group string, values map[string]string) (map[string]string, error)
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

// GetBranding returns the provider's branding settings
// @Summary Get branding settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /settings/branding [get]
func (h *Handler) GetBranding(w http.ResponseWriter, r *http.Request) {
	h.getGroup(w, GroupBranding)
}

// UpdateBranding writes branding settings
// @Summary Update branding settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body map[string]string true "Settings"
// @Success 200 {object} map[string]string
// @Router /settings/branding [put]
func (h *Handler) UpdateBranding(w http.ResponseWriter, r *http.Request) {
	h.updateGroup(w, r, GroupBranding)
}

// GetTerminology returns the provider's terminology settings
// @Summary Get terminology settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /settings/terminology [get]
func (h *Handler) GetTerminology(w http.ResponseWriter, r *http.Request) {
	h.getGroup(w, GroupTerminology)
}

// UpdateTerminology writes terminology settings
// @Summary Update terminology settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body map[string]string true "Settings"
// @Success 200 {object} map[string]string
// @Router /settings/terminology [put]
func (h *Handler) UpdateTerminology(w http.ResponseWriter, r *http.Request) {
	h.updateGroup(w, r, GroupTerminology)
}

func (h *Handler) getGroup(w http.ResponseWriter, group string) {
	values, err := h.Service.GetGroup(group)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, values)
}

func (h *Handler) updateGroup(w http.ResponseWriter, r *http.Request, group string) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateGroup(user, group, values)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}
