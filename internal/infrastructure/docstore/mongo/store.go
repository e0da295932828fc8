// Package mongo keeps each document collection in a MongoDB collection of the
// same name.
package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/query"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *logrus.Logger
}

// Connect dials uri and pings it within timeout. Nested documents decode as
// maps so they re-encode to plain JSON objects.
func Connect(ctx context.Context, uri, database string, timeout time.Duration, logger *logrus.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &Store{client: client, db: client.Database(database), logger: logger}, nil
}

func (s *Store) Name() string { return "mongo" }

func findOptions(q query.Query) *options.FindOptions {
	opts := options.Find()
	if len(q.Sort) > 0 {
		sort := make(bson.D, 0, len(q.Sort))
		for _, f := range q.Sort {
			sort = append(sort, bson.E{Key: f.Field, Value: int(f.Direction)})
		}
		opts.SetSort(sort)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}

func filterOf(q query.Query) bson.M {
	f := bson.M{}
	for k, v := range q.Filter {
		f[k] = v
	}
	return f
}

// Find implements ports.DocumentStore.
func (s *Store) Find(ctx context.Context, q query.Query) ([]ports.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	cur, err := s.db.Collection(q.Collection).Find(ctx, filterOf(q), findOptions(q))
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"collection": q.Collection}).WithError(err).Error("mongo: failed to find documents")
		}
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cur.Close(ctx)

	docs := make([]ports.Document, 0)
	for cur.Next(ctx) {
		var m bson.M
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		b, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to encode document: %w", err)
		}
		docs = append(docs, b)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return docs, nil
}

func toBSON(id string, doc any) (bson.M, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var m bson.M
	if err := bson.UnmarshalExtJSON(payload, false, &m); err != nil {
		return nil, fmt.Errorf("failed to convert document: %w", err)
	}
	m["_id"] = id
	return m, nil
}

// Insert implements ports.DocumentWriter.
func (s *Store) Insert(ctx context.Context, collection, id string, doc any) error {
	m, err := toBSON(id, doc)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s/%s: %w", collection, id, ports.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// Replace implements ports.DocumentWriter.
func (s *Store) Replace(ctx context.Context, collection, id string, doc any) error {
	m, err := toBSON(id, doc)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, m)
	if err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ports.ErrNotFound)
	}
	return nil
}

// Delete implements ports.DocumentWriter.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ports.ErrNotFound)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ ports.DocumentBackend = (*Store)(nil)
