package routes

import (
	"github.com/go-chi/chi/v5"

	"showgrounds/paddock/internal/api"
	"showgrounds/paddock/internal/middleware"
)

// RegisterAPIRoutes registers the /api/v1 routes. Every route needs the API
// key and is rate limited per client IP.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {
	limiter := middleware.NewRateLimiter(deps.Config.API.RateLimitRPS, deps.Config.API.RateLimitBurst)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)
		v1.Use(middleware.AuthMiddleware(deps.Config.API.SecretKey))

		v1.Route("/schedule", func(schedule chi.Router) {
			schedule.Get("/daily", api.DailyScheduleHandler(deps.Jobs.MorningSync))
			schedule.Get("/class-monitor", api.ClassMonitorHandler(deps.Jobs.ClassMonitor))
			schedule.Get("/view", api.ScheduleViewHandler(deps.Services.ScheduleView, deps.Tenant))
			schedule.Get("/notifications", api.NotificationsHandler(deps.Services.Notifications, deps.Tenant))
		})

		v1.Get("/jobs/status", api.JobsStatusHandler(deps.Services.SyncStatus, deps.Tenant, deps.Jobs.Running))
	})
}
