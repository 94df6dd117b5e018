package http_handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ObjectReader serves stored images back by key.
type ObjectReader interface {
	Get(key string) (contentType string, data []byte, ok bool)
}

// UploadsHandler serves GET /uploads/* from the in-process image store.
// Only mounted when no remote object store is configured.
type UploadsHandler struct {
	objects ObjectReader
}

func NewUploadsHandler(objects ObjectReader) *UploadsHandler {
	return &UploadsHandler{objects: objects}
}

func (h *UploadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	ct, data, ok := h.objects.Get(key)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
