package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/sweetshop/sweetshop/internal/model"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the welcome, health and API description endpoints.
type SystemHandler struct {
	db     Pinger
	doc    *openapi3.T
	logger *slog.Logger
}

// NewSystemHandler creates a new SystemHandler. doc is served as-is from
// OpenAPI.
func NewSystemHandler(db Pinger, doc *openapi3.T, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{db: db, doc: doc, logger: logger}
}

// Root greets clients.
// GET /
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Welcome to Sweet Shop API"})
}

// Health reports whether the service can reach its database.
// GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, model.HealthResponse{Status: "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "healthy"})
}

// OpenAPI serves the API description.
// GET /api/v1/openapi.json
func (h *SystemHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.doc)
}
