package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/authgate/internal/adapter/http/handler"
	"github.com/iho/authgate/internal/adapter/http/middleware"
	"github.com/iho/authgate/internal/infrastructure/auth"
	"github.com/iho/authgate/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler   *handler.AuthHandler
	HealthHandler *handler.HealthHandler
	JWTManager    *auth.JWTManager
	Logger        zerolog.Logger
	Metrics       *metrics.Metrics
}

// NewRouter creates the reference auth server router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	loginLimiter := middleware.NewRateLimiter(5, 10)

	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimiter.Limit).Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
		r.Post("/logout", cfg.AuthHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTManager))
			r.Get("/me", cfg.AuthHandler.Me)
		})
	})

	return r
}
