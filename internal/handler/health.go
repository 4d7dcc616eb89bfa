package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/capitalize-ai/gemini-chat/internal/storage"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	gateway *storage.Gateway
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(gateway *storage.Gateway) *HealthHandler {
	return &HealthHandler{
		gateway: gateway,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready. A server without durable storage is ready but
// reported as degraded.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.gateway.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "not ready",
			"reason":  "storage not reachable",
			"storage": h.gateway.Backend(),
		})
		return
	}

	status := "ready"
	if !h.gateway.Durable() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"storage": h.gateway.Backend(),
	})
}
