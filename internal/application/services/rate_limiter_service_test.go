package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnLuoRidge/Lovely-AIP/internal/application/services"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/repositories"
)

func TestRateLimiterService_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := services.NewRateLimiterService(repositories.NewRateLimitRedisRepository(client), &services.RateLimiterConfig{
		DefaultRequestsPerMinute: 2,
		Window:                   time.Hour,
	}, nil)
	ctx := context.Background()

	allowed, remaining, limit, _, err := svc.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, 2, limit)

	allowed, _, _, _, err = svc.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, remaining, _, _, err = svc.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _, _, err = svc.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterService_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	svc := services.NewRateLimiterService(repositories.NewRateLimitRedisRepository(client), nil, nil)

	mr.Close()
	allowed, _, _, _, err := svc.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
	assert.True(t, allowed)
}
