package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), DisableIdentity: true})
	t.Cleanup(func() { client.Close() })
	return NewRedisLimiter(client, "billboard:submit", limit, window), srv
}

func TestRedisLimiterWindow(t *testing.T) {
	limiter, srv := newTestLimiter(t, 2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retry, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retry, time.Duration(0))
	assert.LessOrEqual(t, retry, time.Hour)

	allowed, _, err = limiter.Allow(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, allowed, "counters are per key")

	srv.FastForward(time.Hour + time.Second)
	allowed, _, err = limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, allowed, "window expired")
}

func TestRedisLimiterKeepsFirstExpiry(t *testing.T) {
	limiter, srv := newTestLimiter(t, 5, time.Hour)
	ctx := context.Background()

	_, _, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	srv.FastForward(30 * time.Minute)
	_, _, err = limiter.Allow(ctx, "user-1")
	require.NoError(t, err)

	ttl := srv.TTL("billboard:submit:user-1")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 30*time.Minute)
}

func TestRedisLimiterRepairsMissingExpiry(t *testing.T) {
	limiter, srv := newTestLimiter(t, 1, time.Hour)
	ctx := context.Background()

	require.NoError(t, srv.Set("billboard:submit:user-1", "7"))

	allowed, retry, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Hour, retry)
	assert.Equal(t, time.Hour, srv.TTL("billboard:submit:user-1"))
}

func TestRedisLimiterUnavailable(t *testing.T) {
	limiter, srv := newTestLimiter(t, 1, time.Hour)
	srv.Close()

	_, _, err := limiter.Allow(context.Background(), "user-1")
	assert.Error(t, err)
}
