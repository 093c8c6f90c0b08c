package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"showgrounds/paddock/internal/api"
	"showgrounds/paddock/internal/logging"
	"showgrounds/paddock/internal/middleware"
)

// RegisterRoutes builds the HTTP surface: health and metrics at the root,
// the flows and read models under /api/v1.
func RegisterRoutes(deps *api.Dependencies, sdb *sqlx.DB, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.InFlightMiddleware(deps.Metrics))
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	if deps.Config.LogLevel == "debug" {
		r.Use(middleware.Logging)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.API.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(deps.HealthTargets(sdb), upSince))
	r.Handle("/metrics", promhttp.Handler())

	RegisterAPIRoutes(r, deps)

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
