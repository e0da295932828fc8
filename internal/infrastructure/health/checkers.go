package health

import (
	"context"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	infraDB "github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/db"
	"github.com/go-redis/redis/v8"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client redis.Cmdable }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

type docStoreHealthChecker struct{ backend ports.DocumentBackend }

func (d *docStoreHealthChecker) Name() string                    { return "docstore:" + d.backend.Name() }
func (d *docStoreHealthChecker) Check(ctx context.Context) error { return d.backend.Ping(ctx) }

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client redis.Cmdable) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// NewDocStoreHealthChecker reports whether the document backend answers a ping.
func NewDocStoreHealthChecker(backend ports.DocumentBackend) ports.HealthChecker {
	return &docStoreHealthChecker{backend: backend}
}
