package http_handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/task-manager/internal/logger"
	"github.com/baechuer/task-manager/internal/transport/http/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Msg("readiness check failed")
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  "store unavailable",
			})
			return
		}
	}

	response.OK(w, map[string]string{"status": "ready"})
}
