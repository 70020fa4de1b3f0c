package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/rewear/internal/imaging"
)

// MaxUploadBytes caps an image upload before decoding starts.
const MaxUploadBytes = 10 << 20 // 10 MiB

// ImageStore is the slice of the storage package the upload handler
// needs; tests substitute an in-memory fake.
type ImageStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
}

// UploadHandler accepts item photos, normalizes them, and stores them
// in the object store. Clients call this before POST /api/items and put
// the returned URLs in the listing's images array.
type UploadHandler struct {
	store  ImageStore
	logger *slog.Logger
}

func NewUploadHandler(store ImageStore, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{store: store, logger: logger}
}

// HandleUpload processes one multipart image upload.
//
// HTTP: POST /api/items/upload (RequireAuth)
// Form field: "image"
//
// The file's bytes are sniffed (never trust the client's Content-Type),
// downscaled, re-encoded, and uploaded. The response data carries the
// public URL.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	file, _, err := r.FormFile("image")
	if err != nil {
		writeBadRequest(w, "an image file is required in the \"image\" field")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		h.logger.Warn("upload rejected", slog.String("error", err.Error()))
		writeBadRequest(w, err.Error())
		return
	}

	url, err := h.store.Put(r.Context(), result.Data, result.MIME)
	if err != nil {
		h.logger.Error("storing image failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, Envelope{
			Success: false, Error: "internal_error", Message: "could not store the image",
		})
		return
	}

	writeSuccess(w, http.StatusCreated, "image uploaded", map[string]string{"url": url})
}
