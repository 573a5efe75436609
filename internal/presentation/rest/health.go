package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes over HTTP.
type HealthHandler struct {
	service string
	checks  map[string]ReadinessCheck
	logger  *slog.Logger
}

// NewHealthHandler creates a health check HTTP handler. checks are run on
// every readiness probe.
func NewHealthHandler(service string, checks map[string]ReadinessCheck, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{service: service, checks: checks, logger: logger}
}

// Register attaches health-check routes to r.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/healthz", h.liveness)
	r.Get("/readyz", h.readiness)
}

func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.service,
	})
}

func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failures := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "check", name, "error", err)
			failures[name] = err.Error()
		}
	}
	if len(failures) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":   "unavailable",
			"service":  h.service,
			"failures": failures,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"service": h.service,
	})
}
