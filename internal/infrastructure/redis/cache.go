package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/querycache"
)

const (
	defaultOpTimeout = 500 * time.Millisecond
	defaultPrefix    = "querycache"
	scanBatch        = 500
)

// QueryCacheStore implements ports.Cache on Redis. Entries live under
// <prefix>:cache:<key>; tag sets kept by TagIndex live under <prefix>:tag:<tag>.
type QueryCacheStore struct {
	r       redis.Cmdable
	prefix  string
	timeout time.Duration
	logger  *logrus.Logger
}

// NewQueryCacheStore creates a Redis-backed query cache store. Every command
// runs under opTimeout. An empty prefix falls back to "querycache" so keys
// never sit at the top level of a shared Redis.
func NewQueryCacheStore(r redis.Cmdable, prefix string, opTimeout time.Duration, logger *logrus.Logger) *QueryCacheStore {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &QueryCacheStore{r: r, prefix: prefix, timeout: opTimeout, logger: logger}
}

func (c *QueryCacheStore) entryKey(key string) string {
	return c.namespaced("cache:" + key)
}

func (c *QueryCacheStore) tagKey(tag string) string {
	return c.namespaced("tag:" + tag)
}

func (c *QueryCacheStore) namespaced(key string) string {
	return c.prefix + ":" + key
}

func (c *QueryCacheStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// unavailable logs a failed command and wraps it in ErrStoreUnavailable.
func (c *QueryCacheStore) unavailable(op string, err error, fields logrus.Fields) error {
	if c.logger != nil {
		c.logger.WithFields(fields).WithField("op", op).WithError(err).Warn("query cache store unavailable")
	}
	return fmt.Errorf("%w: %s: %v", querycache.ErrStoreUnavailable, op, err)
}

// Get implements Cache.Get. Errors read as a miss.
func (c *QueryCacheStore) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	val, err := c.r.Get(ctx, c.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		_ = c.unavailable("get", err, logrus.Fields{"key": key})
		return nil, false
	}
	return val, true
}

// Set implements Cache.Set.
func (c *QueryCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.r.Set(ctx, c.entryKey(key), value, ttl).Err(); err != nil {
		return c.unavailable("set", err, logrus.Fields{"key": key})
	}
	return nil
}

// Delete implements Cache.Delete.
func (c *QueryCacheStore) Delete(ctx context.Context, key string) error {
	return c.DeleteMany(ctx, []string{key})
}

// DeleteMany implements Cache.DeleteMany.
func (c *QueryCacheStore) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	ns := make([]string, len(keys))
	for i, k := range keys {
		ns[i] = c.entryKey(k)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.r.Del(ctx, ns...).Err(); err != nil {
		return c.unavailable("delete", err, logrus.Fields{"keys": len(keys)})
	}
	return nil
}

// FlushAll implements Cache.FlushAll. Only keys in this store's namespace are
// removed; the rest of the Redis database is left alone.
func (c *QueryCacheStore) FlushAll(ctx context.Context) error {
	for _, pattern := range []string{c.namespaced("cache:*"), c.namespaced("tag:*")} {
		if err := c.deleteMatching(ctx, pattern); err != nil {
			return err
		}
	}
	if c.logger != nil {
		c.logger.WithField("prefix", c.prefix).Info("query cache flushed")
	}
	return nil
}

func (c *QueryCacheStore) deleteMatching(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		opCtx, cancel := c.withTimeout(ctx)
		keys, next, err := c.r.Scan(opCtx, cursor, pattern, scanBatch).Result()
		if err == nil && len(keys) > 0 {
			err = c.r.Del(opCtx, keys...).Err()
		}
		cancel()
		if err != nil {
			return c.unavailable("flush", err, logrus.Fields{"pattern": pattern})
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

var _ ports.Cache = (*QueryCacheStore)(nil)
