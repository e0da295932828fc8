// Package memory is an in-process document backend for local runs and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/query"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
)

type Store struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func New() *Store {
	return &Store{data: map[string]map[string][]byte{}}
}

func (s *Store) Name() string { return "memory" }

type row struct {
	id     string
	raw    []byte
	fields map[string]any
}

// Find implements ports.DocumentStore with top-level equality filters and
// JSON-typed ordering. Ties are broken by id.
func (s *Store) Find(ctx context.Context, q query.Query) ([]ports.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	want, err := normalize(map[string]any(q.Filter))
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	wantFields, _ := want.(map[string]any)

	s.mu.RLock()
	rows := make([]row, 0, len(s.data[q.Collection]))
	for id, raw := range s.data[q.Collection] {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			s.mu.RUnlock()
			return nil, fmt.Errorf("decode %s/%s: %w", q.Collection, id, err)
		}
		if matches(fields, wantFields) {
			rows = append(rows, row{id: id, raw: raw, fields: fields})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		for _, f := range q.Sort {
			c := compare(rows[i].fields[f.Field], rows[j].fields[f.Field])
			if c != 0 {
				if f.Direction == query.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return rows[i].id < rows[j].id
	})

	start := int(q.Skip)
	if start > len(rows) {
		start = len(rows)
	}
	end := len(rows)
	if q.Limit > 0 && start+int(q.Limit) < end {
		end = start + int(q.Limit)
	}

	docs := make([]ports.Document, 0, end-start)
	for _, r := range rows[start:end] {
		docs = append(docs, append(ports.Document(nil), r.raw...))
	}
	return docs, nil
}

// Insert implements ports.DocumentWriter.
func (s *Store) Insert(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.data[collection]
	if !ok {
		coll = map[string][]byte{}
		s.data[collection] = coll
	}
	if _, exists := coll[id]; exists {
		return fmt.Errorf("%s/%s: %w", collection, id, ports.ErrDuplicate)
	}
	coll[id] = raw
	return nil
}

// Replace implements ports.DocumentWriter.
func (s *Store) Replace(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[collection][id]; !exists {
		return fmt.Errorf("%s/%s: %w", collection, id, ports.ErrNotFound)
	}
	s.data[collection][id] = raw
	return nil
}

// Delete implements ports.DocumentWriter.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[collection][id]; !exists {
		return fmt.Errorf("%s/%s: %w", collection, id, ports.ErrNotFound)
	}
	delete(s.data[collection], id)
	return nil
}

func (s *Store) Ping(ctx context.Context) error  { return nil }
func (s *Store) Close(ctx context.Context) error { return nil }

// normalize round-trips v through JSON so Go values compare like stored ones.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(fields, want map[string]any) bool {
	for k, v := range want {
		got, ok := fields[k]
		if !ok || !reflect.DeepEqual(got, v) {
			return false
		}
	}
	return true
}

// typeRank orders JSON types the way MongoDB does.
func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64:
		return 1
	case string:
		return 2
	case map[string]any:
		return 3
	case []any:
		return 4
	case bool:
		return 5
	default:
		return 6
	}
}

func compare(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		return strings.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	default:
		ja, _ := json.Marshal(a)
		jb, _ := json.Marshal(b)
		return strings.Compare(string(ja), string(jb))
	}
}

var _ ports.DocumentBackend = (*Store)(nil)
