package querycache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
)

// entry is the envelope stored under a cache key.
type entry struct {
	CachedAt   time.Time        `json:"cached_at"`
	TTLSeconds int64            `json:"ttl_seconds"`
	Documents  []ports.Document `json:"documents"`
}

func encodeEntry(docs []ports.Document, cachedAt time.Time, ttl time.Duration) ([]byte, error) {
	if docs == nil {
		docs = []ports.Document{}
	}
	b, err := json.Marshal(entry{
		CachedAt:   cachedAt.UTC(),
		TTLSeconds: int64(ttl / time.Second),
		Documents:  docs,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrSerialization, err)
	}
	return b, nil
}

// decodeEntry returns freshly allocated documents; nothing aliases b.
func decodeEntry(b []byte) ([]ports.Document, error) {
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSerialization, err)
	}
	if e.Documents == nil {
		return nil, fmt.Errorf("%w: decode: missing documents", ErrSerialization)
	}
	return e.Documents, nil
}
