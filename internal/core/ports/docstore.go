package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/query"
)

// ErrNotFound is returned by writers when no document matches, and by readers
// that expect exactly one document.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned by Insert when the id is already taken.
var ErrDuplicate = errors.New("document already exists")

// Document is one stored document as raw JSON.
type Document = json.RawMessage

// DocumentStore is the read side of a document backend. The cache decorator
// implements it too, so callers cannot tell a cached read from a live one.
type DocumentStore interface {
	Find(ctx context.Context, q query.Query) ([]Document, error)
}

// DocumentWriter is the write side. Writes never go through the cache.
type DocumentWriter interface {
	Insert(ctx context.Context, collection, id string, doc any) error
	Replace(ctx context.Context, collection, id string, doc any) error
	Delete(ctx context.Context, collection, id string) error
}

// DocumentBackend is a concrete document database.
type DocumentBackend interface {
	DocumentStore
	DocumentWriter
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// DecodeAll unmarshals each document into a T.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for i, d := range docs {
		var v T
		if err := json.Unmarshal(d, &v); err != nil {
			return nil, fmt.Errorf("decode document %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeFirst unmarshals the first document, or returns ErrNotFound.
func DecodeFirst[T any](docs []Document) (*T, error) {
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	var v T
	if err := json.Unmarshal(docs[0], &v); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &v, nil
}
