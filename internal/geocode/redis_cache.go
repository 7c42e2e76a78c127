package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/logger"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:autocomplete:"

// RedisCache stores provider responses in Redis so multiple API instances
// share one response cache. Entries are JSON blobs with a server-side TTL.
// Redis failures degrade to cache misses; they never surface to callers.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisCache creates a Redis-backed cache around an existing client.
func NewRedisCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get returns the cached response for key if present and fresh.
func (c *RedisCache) Get(ctx context.Context, key string) ([]Place, bool) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			c.log.Warn("geocode cache read failed", "error", err)
		}
		return nil, false
	}

	var places []Place
	if err := json.Unmarshal(payload, &places); err != nil {
		c.log.Warn("geocode cache entry corrupt, treating as miss", "error", err)
		return nil, false
	}
	return places, true
}

// Set stores places under key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, places []Place) {
	payload, err := json.Marshal(places)
	if err != nil {
		c.log.Warn("geocode cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil && ctx.Err() == nil {
		c.log.Warn("geocode cache write failed", "error", err)
	}
}
