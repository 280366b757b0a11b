package rbac

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/transport"
	"github.com/frahmantamala/care-roster/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListAccess(actorPerms []string) (*AccessPage, error)
	SetUserAccess(actorID int64, actorPerms []string, targetID int64, dto UpdateAccessDTO) error
	ApproveUser(actorID int64, actorPerms []string, targetID int64, dto ApproveUserDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListAccess(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, err := h.Service.ListAccess(user.Permissions)
	if err != nil {
		h.Logger.Error("ListAccess: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) UpdateAccess(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto UpdateAccessDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetUserAccess(user.ID, user.Permissions, targetID, dto); err != nil {
		h.Logger.Error("UpdateAccess: service error", "error", err, "actor_id", user.ID, "target_id", targetID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto ApproveUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ApproveUser(user.ID, user.Permissions, targetID, dto); err != nil {
		h.Logger.Error("ApproveUser: service error", "error", err, "actor_id", user.ID, "target_id", targetID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("ApproveUser: user approved", "actor_id", user.ID, "target_id", targetID)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}
