package common

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"showgrounds/paddock/internal/config"
	"showgrounds/paddock/internal/logging"
)

// NewRedisClient builds a client for cfg. A failed ping is logged and the
// client still returned; the pool reconnects on its own.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	port := cfg.Port
	if port == "" {
		port = "6379"
	}
	addr := fmt.Sprintf("%s:%s", cfg.Host, port)
	logging.Info("[Redis] Initializing Redis client", "addr", addr)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn("[Redis] Failed to ping Redis", "addr", addr, "error", err)
		return client
	}

	logging.Info("[Redis] Successfully connected to Redis", "addr", addr)
	return client
}
