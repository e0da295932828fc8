// Package postgres stores documents as JSONB rows in a single documents table
// keyed by (collection, id).
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/query"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/db"
)

const (
	table           = "documents"
	uniqueViolation = "23505"
)

// Store implements ports.DocumentBackend on Postgres.
type Store struct {
	db     *db.Database
	logger *logrus.Logger
}

func New(database *db.Database, logger *logrus.Logger) *Store {
	return &Store{db: database, logger: logger}
}

func qb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (s *Store) Name() string { return "postgres" }

// buildFind translates q into SQL. Field names are validated before they are
// interpolated into WHERE and ORDER BY.
func buildFind(q query.Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	sb := qb().Select("doc").From(table).Where(sq.Eq{"collection": q.Collection})
	fields := make([]string, 0, len(q.Filter))
	for f := range q.Filter {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	// Each top-level field must equal its value exactly, arrays and objects
	// included.
	for _, f := range fields {
		v, err := json.Marshal(q.Filter[f])
		if err != nil {
			return "", nil, fmt.Errorf("encode filter %s: %w", f, err)
		}
		sb = sb.Where(fmt.Sprintf("doc->'%s' = ?::jsonb", f), string(v))
	}
	for _, f := range q.Sort {
		dir := "ASC"
		if f.Direction == query.Desc {
			dir = "DESC"
		}
		sb = sb.OrderBy(fmt.Sprintf("doc->'%s' %s", f.Field, dir))
	}
	sb = sb.OrderBy("id ASC")
	if q.Limit > 0 {
		sb = sb.Limit(uint64(q.Limit))
	}
	if q.Skip > 0 {
		sb = sb.Offset(uint64(q.Skip))
	}
	return sb.ToSql()
}

// Find implements ports.DocumentStore.
func (s *Store) Find(ctx context.Context, q query.Query) ([]ports.Document, error) {
	sqlStr, args, err := buildFind(q)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.DB.QueryxContext(ctx, sqlStr, args...)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"collection": q.Collection}).WithError(err).Error("db: failed to find documents")
		}
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer rows.Close()

	docs := make([]ports.Document, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, ports.Document(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return docs, nil
}

// Insert implements ports.DocumentWriter.
func (s *Store) Insert(ctx context.Context, collection, id string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	sqlStr, args, err := qb().Insert(table).
		Columns("collection", "id", "doc").
		Values(collection, id, sq.Expr("?::jsonb", string(payload))).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.db.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%s/%s: %w", collection, id, ports.ErrDuplicate)
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"collection": collection, "id": id}).WithError(err).Error("db: failed to insert document")
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// Replace implements ports.DocumentWriter.
func (s *Store) Replace(ctx context.Context, collection, id string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	sqlStr, args, err := qb().Update(table).
		Set("doc", sq.Expr("?::jsonb", string(payload))).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}
	return s.execOne(ctx, "replace", collection, id, sqlStr, args)
}

// Delete implements ports.DocumentWriter.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	sqlStr, args, err := qb().Delete(table).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}
	return s.execOne(ctx, "delete", collection, id, sqlStr, args)
}

func (s *Store) execOne(ctx context.Context, op, collection, id, sqlStr string, args []any) error {
	res, err := s.db.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"collection": collection, "id": id, "op": op}).WithError(err).Error("db: document write failed")
		}
		return fmt.Errorf("failed to %s document: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s document: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ports.ErrNotFound)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.DB.PingContext(ctx)
}

// Close is a no-op; the *db.Database is owned and closed by the caller.
func (s *Store) Close(ctx context.Context) error {
	return nil
}

var _ ports.DocumentBackend = (*Store)(nil)
