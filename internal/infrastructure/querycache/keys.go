package querycache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/query"
)

// keyMaterial is the shape that gets hashed. The cache mode is not part of it:
// the same query cached under two different tags shares one entry.
type keyMaterial struct {
	Collection string            `json:"collection"`
	Filter     json.RawMessage   `json:"filter"`
	Sort       []query.SortField `json:"sort"`
	Skip       int64             `json:"skip"`
	Limit      int64             `json:"limit"`
}

// DeriveKey returns the lowercase hex SHA-256 of the canonical form of q.
// Filter keys are sorted at every nesting level; sort fields keep their order.
func DeriveKey(q query.Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}

	filter, err := canonicalize(map[string]any(q.Filter))
	if err != nil {
		return "", fmt.Errorf("%w: filter: %v", ErrKeyDerivation, err)
	}
	sortFields := q.Sort
	if sortFields == nil {
		sortFields = []query.SortField{}
	}

	raw, err := json.Marshal(keyMaterial{
		Collection: q.Collection,
		Filter:     filter,
		Sort:       sortFields,
		Skip:       q.Skip,
		Limit:      q.Limit,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case query.Filter:
		return canonicalizeMap(map[string]any(val))
	case []any:
		return canonicalizeSlice(val)
	default:
		// encoding/json already sorts map keys and rejects funcs, chans and NaN.
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		result = append(result, valBytes...)
	}
	return append(result, '}'), nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}
		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	return append(result, ']'), nil
}
