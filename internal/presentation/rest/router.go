package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bibbank/loan-decision-service/pkg/auth"
)

// RouterConfig collects everything the HTTP router mounts.
type RouterConfig struct {
	Applications *ApplicationHandler
	Health       *HealthHandler
	// Metrics is served at /metrics when non-nil.
	Metrics http.Handler
	// JWT enables bearer-token authentication on /api when non-nil.
	JWT            *auth.JWTService
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the service's HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	cfg.Health.Register(r)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		var statusGuards []func(http.Handler) http.Handler
		if cfg.JWT != nil {
			r.Use(auth.HTTPMiddleware(cfg.JWT, nil))
			statusGuards = append(statusGuards, auth.RequireRoleHTTP(auth.RoleAdmin, auth.RoleOperator))
		}
		cfg.Applications.Register(r, statusGuards...)
	})

	return r
}

// requestLogger logs one line per request with its outcome.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
