package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/querycache"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redis.Client, *QueryCacheStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:        mr.Addr(),
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client, NewQueryCacheStore(client, "bookstore", time.Second, nil)
}

func TestQueryCacheStore_GetSet(t *testing.T) {
	mr, _, store := newTestStore(t)
	ctx := context.Background()

	_, ok := store.Get(ctx, "k1")
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), time.Minute))
	got, ok := store.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), got)
	assert.True(t, mr.Exists("bookstore:cache:k1"))

	require.NoError(t, store.Set(ctx, "k1", []byte("v2"), time.Minute))
	got, _ = store.Get(ctx, "k1")
	assert.Equal(t, []byte("v2"), got)
}

func TestQueryCacheStore_TTLExpiry(t *testing.T) {
	mr, _, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("bookstore:cache:k1"))

	mr.FastForward(61 * time.Second)
	_, ok := store.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestQueryCacheStore_DeleteIsIdempotent(t *testing.T) {
	_, _, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, store.DeleteMany(ctx, []string{"a", "b", "missing"}))
	require.NoError(t, store.DeleteMany(ctx, []string{"a", "b"}))
	require.NoError(t, store.Delete(ctx, "never-set"))
	require.NoError(t, store.DeleteMany(ctx, nil))

	_, ok := store.Get(ctx, "a")
	assert.False(t, ok)
}

func TestQueryCacheStore_FlushAllKeepsForeignKeys(t *testing.T) {
	mr, _, store := newTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, store.Set(ctx, k, []byte(k), time.Minute))
	}
	_, err := mr.SAdd("bookstore:tag:categories", "a")
	require.NoError(t, err)
	require.NoError(t, mr.Set("ratelimit:10.0.0.1:1", "3"))
	require.NoError(t, mr.Set("otherapp:cache:a", "x"))

	require.NoError(t, store.FlushAll(ctx))

	for _, k := range []string{"a", "b", "c"} {
		_, ok := store.Get(ctx, k)
		assert.False(t, ok, k)
	}
	assert.False(t, mr.Exists("bookstore:tag:categories"))
	assert.True(t, mr.Exists("ratelimit:10.0.0.1:1"))
	assert.True(t, mr.Exists("otherapp:cache:a"))
}

func TestQueryCacheStore_DegradesWhenRedisIsDown(t *testing.T) {
	mr, _, store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), time.Minute))

	mr.Close()

	_, ok := store.Get(ctx, "k1")
	assert.False(t, ok)

	err := store.Set(ctx, "k1", []byte("v1"), time.Minute)
	assert.True(t, errors.Is(err, querycache.ErrStoreUnavailable))

	err = store.DeleteMany(ctx, []string{"k1"})
	assert.True(t, errors.Is(err, querycache.ErrStoreUnavailable))

	err = store.FlushAll(ctx)
	assert.True(t, errors.Is(err, querycache.ErrStoreUnavailable))
}

func TestQueryCacheStore_EmptyPrefixStaysNamespaced(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewQueryCacheStore(client, "", time.Second, nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("x"), time.Minute))
	require.NoError(t, mr.Set("cache:foreign", "y"))
	assert.True(t, mr.Exists("querycache:cache:a"))

	require.NoError(t, store.FlushAll(ctx))
	assert.False(t, mr.Exists("querycache:cache:a"))
	assert.True(t, mr.Exists("cache:foreign"))
}
