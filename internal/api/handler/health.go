package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/hoyorecord/internal/api/response"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and storage health
type HealthHandler struct {
	storage Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Get handles GET /health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.storage != nil {
		if err := h.storage.Ping(r.Context()); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "degraded", Storage: "unreachable"})
			return
		}
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Storage: "ok"})
}
