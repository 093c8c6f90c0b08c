// Package app opens the process-wide resources shared by the server and the
// operator CLI.
package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"showgrounds/paddock/internal/api"
	"showgrounds/paddock/internal/common"
	"showgrounds/paddock/internal/config"
	"showgrounds/paddock/internal/db"
	"showgrounds/paddock/internal/logging"
	"showgrounds/paddock/internal/metrics"
)

type App struct {
	Config *config.Config
	Gorm   *gorm.DB
	SQL    *sqlx.DB
	Redis  *redis.Client
	Deps   *api.Dependencies

	// owned is set when Open made the connections and Close may release them
	owned bool
}

// Open connects to Postgres through both GORM and sqlx, to Redis when
// configured, and wires the dependency graph. It does not migrate.
func Open(cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	dsn := cfg.Database.DSN()

	if err := db.InitPostgres(dsn); err != nil {
		return nil, fmt.Errorf("connect postgres (sqlx): %w", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	gdb, err := db.InitPostgresORM(dsn)
	if err != nil {
		_ = db.DB.Close()
		return nil, err
	}
	logging.Info("Connected to Postgres (GORM)")

	a := &App{Config: cfg, Gorm: gdb, SQL: db.DB, owned: true}
	if cfg.RedisEnabled() {
		a.Redis = common.NewRedisClient(cfg.Redis)
	}

	a.Deps, err = api.InitDependencies(cfg, gdb, a.SQL, a.Redis, metrics.NewMetricsRegistry(reg))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("initialize dependencies: %w", err)
	}
	return a, nil
}

// Migrate brings the schema up to date
func (a *App) Migrate() error {
	return db.Migrate(a.Gorm)
}

func (a *App) Close() {
	if !a.owned {
		return
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.Gorm.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if a.SQL != nil {
		_ = a.SQL.Close()
	}
}
