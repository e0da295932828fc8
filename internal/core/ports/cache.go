package ports

import (
	"context"
	"time"
)

// Cache is the byte store behind the query result cache.
// Get never fails: an unreachable store reads as a miss so callers fall back to
// the document store. Write-side methods return errors callers may discard.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if absent or unreadable.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value for key with TTL, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
	// FlushAll removes every cache entry and every tag set in the namespace.
	FlushAll(ctx context.Context) error
}

// CacheInvalidator evicts cached query results after a committed write.
// An empty tag evicts everything.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, tag string) error
}

// TagIndex maps tags to the cache keys recorded under them.
type TagIndex interface {
	CacheInvalidator
	Record(ctx context.Context, tag, key string) error
}
