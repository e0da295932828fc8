package repositories

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := NewRateLimitRedisRepository(client)
	ctx := context.Background()

	var last int
	var start time.Time
	for i := 0; i < 3; i++ {
		n, ws, err := repo.IncrementWindow(ctx, "10.0.0.1", time.Hour, "ratelimit:ip", 2*time.Hour)
		require.NoError(t, err)
		last, start = n, ws
	}
	assert.Equal(t, 3, last)

	n, _, err := repo.IncrementWindow(ctx, "10.0.0.2", time.Hour, "ratelimit:ip", 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	key := "ratelimit:ip:10.0.0.1:" + strconv.FormatInt(start.Unix(), 10)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 2*time.Hour, mr.TTL(key))
}
