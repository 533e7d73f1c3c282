package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"gpacalc/internal/services"
	api "gpacalc/pkg/contracts/api/v1"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health. ?verbose=true adds dependency and
// runtime details.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var req api.HealthCheckRequest
	req.Verbose, _ = strconv.ParseBool(r.URL.Query().Get("verbose"))

	status := h.service.HealthCheck(r.Context(), req.Verbose)
	if status.Status != "ok" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}
