package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/query"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
)

// findAll runs q and decodes every document.
func findAll[T any](ctx context.Context, store ports.DocumentStore, q query.Query) ([]T, error) {
	docs, err := store.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	return ports.DecodeAll[T](docs)
}

// findOne runs q limited to one document and maps an empty result to notFound.
func findOne[T any](ctx context.Context, store ports.DocumentStore, q query.Query, notFound error) (*T, error) {
	docs, err := store.Find(ctx, q.Take(1))
	if err != nil {
		return nil, err
	}
	v, err := ports.DecodeFirst[T](docs)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, notFound
	}
	return v, err
}

// exists reports whether any document in collection has field == value,
// reading around the cache.
func exists(ctx context.Context, store ports.DocumentStore, collection, field string, value any) (bool, error) {
	docs, err := store.Find(ctx, query.Find(collection).Where(field, value).Take(1))
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// invalidate evicts tags after a committed write. Failures are logged and
// dropped; affected entries expire with their TTL.
func invalidate(ctx context.Context, inv ports.CacheInvalidator, logger *logrus.Logger, tags ...string) {
	if inv == nil {
		return
	}
	for _, tag := range tags {
		if err := inv.Invalidate(ctx, tag); err != nil && logger != nil {
			logger.WithFields(logrus.Fields{"tag": tag}).WithError(err).Warn("cache invalidation failed")
		}
	}
}
