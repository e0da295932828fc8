package redis

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
)

// TagIndex keeps one Redis set per tag holding the cache keys recorded under it.
// Tag sets have no TTL; they are removed when their tag is invalidated.
type TagIndex struct {
	store *QueryCacheStore
}

// NewTagIndex shares the namespace, client and timeout of store.
func NewTagIndex(store *QueryCacheStore) *TagIndex {
	return &TagIndex{store: store}
}

// Record adds key to the tag's set.
func (t *TagIndex) Record(ctx context.Context, tag, key string) error {
	if tag == "" {
		return nil
	}
	ctx, cancel := t.store.withTimeout(ctx)
	defer cancel()

	if err := t.store.r.SAdd(ctx, t.store.tagKey(tag), key).Err(); err != nil {
		return t.store.unavailable("record", err, logrus.Fields{"tag": tag, "key": key})
	}
	return nil
}

// Invalidate deletes every entry recorded under tag and drops those keys from
// the tag set. The empty tag flushes the whole namespace. Unknown tags are a
// no-op.
func (t *TagIndex) Invalidate(ctx context.Context, tag string) error {
	if tag == "" {
		return t.store.FlushAll(ctx)
	}
	tagKey := t.store.tagKey(tag)

	readCtx, cancel := t.store.withTimeout(ctx)
	keys, err := t.store.r.SMembers(readCtx, tagKey).Result()
	cancel()
	if err != nil {
		return t.store.unavailable("invalidate", err, logrus.Fields{"tag": tag})
	}
	if len(keys) == 0 {
		return nil
	}

	entries := make([]string, len(keys))
	members := make([]interface{}, len(keys))
	for i, k := range keys {
		entries[i] = t.store.entryKey(k)
		members[i] = k
	}

	// SREM instead of DEL so keys recorded after the SMEMBERS survive. Redis
	// drops the set once it is empty.
	writeCtx, cancel := t.store.withTimeout(ctx)
	defer cancel()
	pipe := t.store.r.TxPipeline()
	pipe.Del(writeCtx, entries...)
	pipe.SRem(writeCtx, tagKey, members...)
	if _, err := pipe.Exec(writeCtx); err != nil {
		return t.store.unavailable("invalidate", err, logrus.Fields{"tag": tag, "keys": len(keys)})
	}
	return nil
}

var _ ports.TagIndex = (*TagIndex)(nil)
