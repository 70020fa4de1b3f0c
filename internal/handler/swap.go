package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/rewear/internal/auth"
	"github.com/sakif/rewear/internal/service"
)

// SwapHandler manages swap requests between users.
type SwapHandler struct {
	swaps  *service.SwapService
	logger *slog.Logger
}

func NewSwapHandler(swaps *service.SwapService, logger *slog.Logger) *SwapHandler {
	return &SwapHandler{swaps: swaps, logger: logger}
}

type createSwapRequest struct {
	ItemID  string `json:"itemId"`
	Message string `json:"message"`
}

type updateSwapRequest struct {
	Status string `json:"status"`
}

// HandleCreate opens a swap request on an item.
//
// HTTP: POST /api/swaps (RequireAuth)
func (h *SwapHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Error: "unauthorized"})
		return
	}

	var req createSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	swap, err := h.swaps.Create(r.Context(), ident.UserID, req.ItemID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "swap requested", swap)
}

// HandleList returns the caller's swaps (as requester or owner), with
// item and party details attached.
//
// HTTP: GET /api/swaps (RequireAuth)
func (h *SwapHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Error: "unauthorized"})
		return
	}

	swaps, err := h.swaps.ListForUser(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", swaps)
}

// HandleUpdateStatus moves a swap through its lifecycle. Only the
// item's owner may call this; accepting also flips the item.
//
// HTTP: PUT /api/swaps/{id} (RequireAuth)
func (h *SwapHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Error: "unauthorized"})
		return
	}

	var req updateSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	swap, err := h.swaps.UpdateStatus(r.Context(), ident.UserID, r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "swap updated", swap)
}
