package api

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"showgrounds/paddock/internal/common"
	"showgrounds/paddock/internal/config"
	"showgrounds/paddock/internal/db/repositories"
	"showgrounds/paddock/internal/jobs"
	"showgrounds/paddock/internal/logging"
	"showgrounds/paddock/internal/metrics"
	"showgrounds/paddock/internal/providers"
	"showgrounds/paddock/internal/services"
)

type Repositories struct {
	Store             *repositories.Store
	NotificationQuery *repositories.NotificationQueryRepo
}

type Services struct {
	Cache         common.CacheInterface
	Tokens        *providers.TokenCache
	MorningSync   *services.MorningSyncService
	ClassMonitor  *services.ClassMonitoringService
	Availability  *services.AvailabilityService
	Notifications *services.NotificationService
	ScheduleView  *services.ScheduleViewService
	SyncStatus    *services.SyncStatusService
}

// Dependencies is everything the server and the CLI build from one Config
type Dependencies struct {
	Config   *config.Config
	Tenant   services.Tenant
	Repo     *Repositories
	Services *Services
	Jobs     *jobs.Jobs
	Metrics  *metrics.MetricsRegistry
	Redis    *redis.Client
}

// InitDependencies wires repositories, services and jobs. redisClient may
// be nil; the token cache then lives in process and alerts are not streamed.
func InitDependencies(cfg *config.Config, gdb *gorm.DB, sdb *sqlx.DB, redisClient *redis.Client, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	if cfg.Showgrounds.FarmName == "" {
		return nil, fmt.Errorf("SHOWGROUNDS_FARM_NAME is required")
	}

	tenant := services.Tenant{
		FarmName:   cfg.Showgrounds.FarmName,
		CustomerID: cfg.Showgrounds.CustomerID,
	}

	repos := &Repositories{
		Store:             repositories.NewStore(gdb),
		NotificationQuery: repositories.NewNotificationQueryRepo(sdb),
	}

	var (
		cache  common.CacheInterface
		alerts *common.AlertStream
	)
	if redisClient != nil {
		cache = common.NewRedisCache(redisClient, "paddock:")
		alerts = common.NewAlertStream(redisClient, cfg.Redis.AlertStream)
		logging.Info("Using Redis for token cache and alert stream", "stream", cfg.Redis.AlertStream)
	} else {
		cache = common.NewMemoryCache(time.Hour, 10*time.Minute)
		logging.Info("Using in-memory token cache, alert stream disabled")
	}

	provider := providers.NewShowgroundsProvider(cfg.Showgrounds).WithMetrics(metricsReg)
	tokens := providers.NewTokenCache(provider, cache, cfg.Showgrounds.CustomerID)

	venue := cfg.VenueLocation()
	display := cfg.DisplayLocation()

	availability := services.NewAvailabilityService(venue)
	svcs := &Services{
		Cache:         cache,
		Tokens:        tokens,
		MorningSync:   services.NewMorningSyncService(repos.Store, provider, tokens, metricsReg),
		ClassMonitor:  services.NewClassMonitoringService(repos.Store, provider, tokens, availability, alerts, metricsReg, display),
		Availability:  availability,
		Notifications: services.NewNotificationService(repos.Store.Farms, repos.NotificationQuery),
		ScheduleView:  services.NewScheduleViewService(repos.Store),
		SyncStatus:    services.NewSyncStatusService(repos.Store, display),
	}

	return &Dependencies{
		Config:   cfg,
		Tenant:   tenant,
		Repo:     repos,
		Services: svcs,
		Jobs: jobs.NewJobs(
			jobs.NewMorningSyncJob(svcs.MorningSync, tenant),
			jobs.NewClassMonitorJob(svcs.ClassMonitor, tenant),
		),
		Metrics: metricsReg,
		Redis:   redisClient,
	}, nil
}

// HealthTargets lists what /healthCheck pings
func (d *Dependencies) HealthTargets(sdb *sqlx.DB) map[string]Pinger {
	targets := map[string]Pinger{"postgres": sdb}
	if d.Redis != nil {
		targets["redis"] = PingerFunc(func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		})
	}
	return targets
}
