// Package querycache memoizes document-store query results in a shared fast
// store and evicts them by tag.
//
// Store wraps any ports.DocumentStore. Queries without a cache mode pass
// straight through. Cached queries are keyed by DeriveKey; on a miss the live
// result is stored with a TTL. Whenever a tagged query is answered from a
// stored entry, hit or miss, the key is recorded under that query's tag so
// that Invalidate(tag) can evict it later.
//
// Concurrent misses on one key share a single live query. That query runs
// detached from any one caller's cancellation, under its own timeout, and each
// caller stops waiting when its own context ends.
//
// Known race: a read that missed before an invalidation and finishes after it
// re-populates the entry with data read before the write. The stale entry lives
// at most one TTL. Writers that need read-your-writes must read with NoCache.
package querycache
