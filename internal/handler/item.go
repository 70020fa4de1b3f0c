package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/rewear/internal/auth"
	"github.com/sakif/rewear/internal/model"
	"github.com/sakif/rewear/internal/repository"
	"github.com/sakif/rewear/internal/service"
)

// ItemHandler manages CRUD for clothing listings.
type ItemHandler struct {
	items  *service.ItemService
	logger *slog.Logger
}

func NewItemHandler(items *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

type createItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Size        string   `json:"size"`
	Condition   string   `json:"condition"`
	Tags        []string `json:"tags"`
	PointsValue int      `json:"pointsValue"`
}

type updateItemRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Images      []string `json:"images"`
	Category    *string  `json:"category"`
	Type        *string  `json:"type"`
	Size        *string  `json:"size"`
	Condition   *string  `json:"condition"`
	Tags        []string `json:"tags"`
	PointsValue *int     `json:"pointsValue"`
}

// HandleCreate lists a new item for the authenticated caller.
//
// HTTP: POST /api/items (RequireAuth)
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Error: "unauthorized"})
		return
	}

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	item, err := h.items.Create(r.Context(), ident.UserID, service.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Category:    req.Category,
		Type:        req.Type,
		Size:        req.Size,
		Condition:   req.Condition,
		Tags:        req.Tags,
		PointsValue: req.PointsValue,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "item listed", item)
}

// HandleList returns listings, optionally narrowed by equality filters.
//
// HTTP: GET /api/items?category=&type=&size=&condition=&status=&uploader=
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ItemFilter{
		Category:   q.Get("category"),
		Type:       q.Get("type"),
		Size:       q.Get("size"),
		Condition:  q.Get("condition"),
		UploaderID: q.Get("uploader"),
	}

	items, err := h.items.List(r.Context(), filter, q.Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", items)
}

// HandleGet returns one listing with its uploader attached.
//
// HTTP: GET /api/items/{id}
func (h *ItemHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", item)
}

// HandleUpdate merges the provided fields into the caller's listing.
//
// HTTP: PUT /api/items/{id} (RequireAuth; uploader only)
func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Error: "unauthorized"})
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	item, err := h.items.Update(r.Context(), ident.UserID, r.PathValue("id"), model.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Category:    req.Category,
		Type:        req.Type,
		Size:        req.Size,
		Condition:   req.Condition,
		Tags:        req.Tags,
		PointsValue: req.PointsValue,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "item updated", item)
}

// HandleDelete removes the caller's listing.
//
// HTTP: DELETE /api/items/{id} (RequireAuth; uploader only)
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Error: "unauthorized"})
		return
	}

	if err := h.items.Delete(r.Context(), ident.UserID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "item deleted", nil)
}
