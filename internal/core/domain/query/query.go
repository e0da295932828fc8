package query

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// ErrInvalidQuery is returned by Validate for malformed queries.
var ErrInvalidQuery = errors.New("invalid query")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Direction is the sort order of a single field.
type Direction int

const (
	Asc  Direction = 1
	Desc Direction = -1
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// ParseDirection maps the 1|-1 convention used by the HTTP API.
func ParseDirection(v int) (Direction, bool) {
	switch v {
	case 1:
		return Asc, true
	case -1:
		return Desc, true
	default:
		return 0, false
	}
}

// SortField keeps its position inside Query.Sort; order is significant.
type SortField struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Filter is an equality-only match on top-level document fields.
type Filter map[string]any

// Query describes a read against one document collection.
type Query struct {
	Collection string
	Filter     Filter
	Sort       []SortField
	Skip       int64
	Limit      int64
	Cache      CacheMode
}

// Find starts a query against collection.
func Find(collection string) Query {
	return Query{Collection: collection}
}

// Where adds an equality condition. The receiver is not modified.
func (q Query) Where(field string, value any) Query {
	f := make(Filter, len(q.Filter)+1)
	for k, v := range q.Filter {
		f[k] = v
	}
	f[field] = value
	q.Filter = f
	return q
}

// SortBy appends a sort field after any existing ones.
func (q Query) SortBy(field string, dir Direction) Query {
	s := make([]SortField, 0, len(q.Sort)+1)
	s = append(s, q.Sort...)
	q.Sort = append(s, SortField{Field: field, Direction: dir})
	return q
}

func (q Query) Offset(n int64) Query {
	q.Skip = n
	return q
}

func (q Query) Take(n int64) Query {
	q.Limit = n
	return q
}

// Page converts a 1-based page number and page size into skip/limit.
func (q Query) Page(page, size int64) Query {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return q
	}
	// Pages past the representable offset clamp to it and read nothing.
	if page-1 > math.MaxInt64/size {
		return q.Offset(math.MaxInt64).Take(size)
	}
	return q.Offset((page - 1) * size).Take(size)
}

// WithCache opts the query into result caching. With no argument (or an empty
// tag) the entry is cached untagged and only expires or is flushed globally.
func (q Query) WithCache(tag ...string) Query {
	if len(tag) > 0 && tag[0] != "" {
		q.Cache = CacheTagged(tag[0])
	} else {
		q.Cache = CacheUntagged()
	}
	return q
}

// WithoutCache clears any cache mode.
func (q Query) WithoutCache() Query {
	q.Cache = NoCache
	return q
}

// Validate checks the collection name, field names, pagination and directions.
func (q Query) Validate() error {
	if q.Collection == "" {
		return fmt.Errorf("%w: empty collection", ErrInvalidQuery)
	}
	if !identPattern.MatchString(q.Collection) {
		return fmt.Errorf("%w: collection %q", ErrInvalidQuery, q.Collection)
	}
	for field := range q.Filter {
		if !identPattern.MatchString(field) {
			return fmt.Errorf("%w: filter field %q", ErrInvalidQuery, field)
		}
	}
	for _, s := range q.Sort {
		if !identPattern.MatchString(s.Field) {
			return fmt.Errorf("%w: sort field %q", ErrInvalidQuery, s.Field)
		}
		if s.Direction != Asc && s.Direction != Desc {
			return fmt.Errorf("%w: sort direction %d on %q", ErrInvalidQuery, s.Direction, s.Field)
		}
	}
	if q.Skip < 0 || q.Limit < 0 {
		return fmt.Errorf("%w: negative skip or limit", ErrInvalidQuery)
	}
	return nil
}
