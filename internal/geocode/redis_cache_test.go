package geocode

import (
	"context"
	"testing"
	"time"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return NewRedisCache(client, ttl, logger.New("test")), srv
}

func TestRedisCache_RoundTrip(t *testing.T) {
	cache, _ := newRedisCache(t, 5*time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "k", []Place{{PlaceID: "1", DisplayName: "Main St 1", Lat: "10", Lon: "20"}})

	places, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	require.Len(t, places, 1)
	assert.Equal(t, "Main St 1", places[0].DisplayName)
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	cache, srv := newRedisCache(t, 5*time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "k", []Place{{PlaceID: "1"}})

	srv.FastForward(5*time.Minute + time.Second)
	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok, "entry should have expired")
}

func TestRedisCache_MissForUnknownKey(t *testing.T) {
	cache, _ := newRedisCache(t, time.Minute)
	_, ok := cache.Get(context.Background(), "missing")
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	cache, srv := newRedisCache(t, time.Minute)

	require.NoError(t, srv.Set(redisKeyPrefix+"k", "not json"))

	_, ok := cache.Get(context.Background(), "k")
	assert.False(t, ok)
}
