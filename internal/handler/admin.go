package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/rewear/internal/service"
)

// AdminHandler exposes the moderation endpoints. The router chains
// RequireAuth and RequireAdmin in front of every route here, so these
// handlers never re-check the role.
type AdminHandler struct {
	admin  *service.AdminService
	logger *slog.Logger
}

func NewAdminHandler(admin *service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

type moderateItemRequest struct {
	Status string `json:"status"`
}

// HandlePendingItems lists items awaiting moderation.
//
// HTTP: GET /api/admin/pending-items
func (h *AdminHandler) HandlePendingItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.admin.ListPendingItems(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", items)
}

// HandleModerateItem resolves a pending listing to available or rejected.
//
// HTTP: PUT /api/admin/item/{id}
func (h *AdminHandler) HandleModerateItem(w http.ResponseWriter, r *http.Request) {
	var req moderateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	item, err := h.admin.ModerateItem(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "item moderated", item)
}

// HandleRemoveItem deletes any listing together with its swaps.
//
// HTTP: DELETE /api/admin/item/{id}
func (h *AdminHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.RemoveItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "item removed", nil)
}

// HandleRemoveUser deletes an account and everything it owns.
//
// HTTP: DELETE /api/admin/user/{id}
func (h *AdminHandler) HandleRemoveUser(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.RemoveUser(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "user removed", nil)
}
