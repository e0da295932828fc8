package querycache

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/query"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
)

// DefaultTTL applies when NewStore is given a non-positive TTL.
const DefaultTTL = 10 * time.Minute

// flightTimeout bounds a coalesced live query. The flight outlives the request
// that started it, so it cannot inherit that request's deadline.
const flightTimeout = 30 * time.Second

var tracer = otel.Tracer("github.com/AnLuoRidge/Lovely-AIP/querycache")

// Store is a read-through cache in front of a DocumentStore.
type Store struct {
	inner  ports.DocumentStore
	cache  ports.Cache
	tags   ports.TagIndex
	ttl    time.Duration
	logger *logrus.Logger
	group  singleflight.Group
	now    func() time.Time
}

// NewStore wraps inner. cache and tags are usually backed by the same Redis.
func NewStore(inner ports.DocumentStore, cache ports.Cache, tags ports.TagIndex, ttl time.Duration, logger *logrus.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		inner:  inner,
		cache:  cache,
		tags:   tags,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Find serves q from the cache when q carries a cache mode, falling back to the
// wrapped store on a miss.
func (s *Store) Find(ctx context.Context, q query.Query) ([]ports.Document, error) {
	if !q.Cache.Enabled() {
		requestsTotal.WithLabelValues(q.Collection, resultBypass).Inc()
		return s.inner.Find(ctx, q)
	}

	key, err := DeriveKey(q)
	if err != nil {
		requestsTotal.WithLabelValues(q.Collection, resultError).Inc()
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "querycache.Find", trace.WithAttributes(
		attribute.String("querycache.collection", q.Collection),
		attribute.String("querycache.key", key),
		attribute.String("querycache.mode", q.Cache.String()),
	))
	defer span.End()

	if docs, ok := s.lookup(ctx, key); ok {
		requestsTotal.WithLabelValues(q.Collection, resultHit).Inc()
		span.SetAttributes(attribute.Bool("querycache.hit", true))
		s.record(ctx, q, key)
		return docs, nil
	}
	requestsTotal.WithLabelValues(q.Collection, resultMiss).Inc()
	span.SetAttributes(attribute.Bool("querycache.hit", false))

	ch := s.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		// A concurrent flight may have populated the entry since our lookup.
		if docs, ok := s.lookup(fctx, key); ok {
			return flight{docs: docs, cached: true}, nil
		}
		live, err := s.inner.Find(fctx, q)
		if err != nil {
			return nil, err
		}
		return s.populate(fctx, q, key, live), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		span.SetStatus(codes.Error, "caller gave up")
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "live query failed")
		return nil, res.Err
	}
	f, ok := res.Val.(flight)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	// Every caller records its own tag; callers sharing a flight may differ.
	if f.cached {
		s.record(ctx, q, key)
	}
	if res.Shared {
		return cloneDocuments(f.docs), nil
	}
	return f.docs, nil
}

// flight is the outcome of one coalesced miss. cached reports whether an entry
// exists under the key for tags to point at.
type flight struct {
	docs   []ports.Document
	cached bool
}

// record adds key to the caller's tag set. It runs on hits as well as misses
// because the same key can be read under several tags.
func (s *Store) record(ctx context.Context, q query.Query, key string) {
	tag, tagged := q.Cache.Tag()
	if !tagged {
		return
	}
	if err := s.tags.Record(ctx, tag, key); err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"tag": tag, "key": key}).WithError(err).Warn("tag not recorded")
	}
}

// Invalidate evicts every entry recorded under tag; an empty tag flushes all.
func (s *Store) Invalidate(ctx context.Context, tag string) error {
	scope := "tag"
	if tag == "" {
		scope = "all"
	}
	ctx, span := tracer.Start(ctx, "querycache.Invalidate", trace.WithAttributes(
		attribute.String("querycache.tag", tag),
		attribute.String("querycache.scope", scope),
	))
	defer span.End()

	invalidationsTotal.WithLabelValues(scope).Inc()
	if err := s.tags.Invalidate(ctx, tag); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalidate failed")
		return err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"tag": tag, "scope": scope}).Debug("query cache invalidated")
	}
	return nil
}

func (s *Store) lookup(ctx context.Context, key string) ([]ports.Document, bool) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	docs, err := decodeEntry(raw)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("discarding unreadable cache entry")
		}
		return nil, false
	}
	return docs, true
}

// populate stores live under key and returns the documents the way a later hit
// would return them, so hits and misses are byte-identical.
func (s *Store) populate(ctx context.Context, q query.Query, key string, live []ports.Document) flight {
	raw, err := encodeEntry(live, s.now(), s.ttl)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"collection": q.Collection, "key": key}).WithError(err).Warn("result not cached")
		}
		return flight{docs: live}
	}
	docs, err := decodeEntry(raw)
	if err != nil {
		return flight{docs: live}
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		return flight{docs: docs}
	}
	return flight{docs: docs, cached: true}
}

func cloneDocuments(docs []ports.Document) []ports.Document {
	out := make([]ports.Document, len(docs))
	for i, d := range docs {
		out[i] = append(ports.Document(nil), d...)
	}
	return out
}

var (
	_ ports.DocumentStore    = (*Store)(nil)
	_ ports.CacheInvalidator = (*Store)(nil)
)
