package common

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"showgrounds/paddock/internal/logging"
)

const redisCacheTimeout = 2 * time.Second

// RedisCache implements CacheInterface on a shared Redis, so every replica
// reuses the same provider token. Keys are stored under prefix. A Redis
// failure reads as a miss; the caller logs in again.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

var _ CacheInterface = (*RedisCache)(nil)

func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) op() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisCacheTimeout)
}

func (r *RedisCache) Set(key string, value string, ttl time.Duration) {
	ctx, cancel := r.op()
	defer cancel()
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		logging.Warn("Redis cache set failed", "key", r.prefix+key, "error", err)
	}
}

func (r *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := r.op()
	defer cancel()
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false
	case err != nil:
		logging.Warn("Redis cache get failed", "key", r.prefix+key, "error", err)
		return "", false
	}
	return v, true
}

func (r *RedisCache) Delete(key string) {
	ctx, cancel := r.op()
	defer cancel()
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		logging.Warn("Redis cache delete failed", "key", r.prefix+key, "error", err)
	}
}

// Close leaves the client open; it is shared with the alert stream and
// closed by its owner.
func (r *RedisCache) Close() error {
	return nil
}
