package query

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDoesNotMutateReceiver(t *testing.T) {
	base := Find("book").Where("category", "42")
	a := base.Where("price", 10).SortBy("price", Asc)
	b := base.SortBy("publishDate", Desc)

	assert.Len(t, base.Filter, 1)
	assert.Empty(t, base.Sort)
	assert.Len(t, a.Filter, 2)
	require.Len(t, b.Sort, 1)
	assert.Equal(t, "publishDate", b.Sort[0].Field)
}

func TestPage(t *testing.T) {
	q := Find("book").Page(3, 20)
	assert.Equal(t, int64(40), q.Skip)
	assert.Equal(t, int64(20), q.Limit)

	q = Find("book").Page(0, 5)
	assert.Equal(t, int64(0), q.Skip)
	assert.Equal(t, int64(5), q.Limit)

	q = Find("book").Page(2, 0)
	assert.Equal(t, int64(0), q.Skip)
	assert.Equal(t, int64(0), q.Limit)

	q = Find("book").Page(math.MaxInt64, 2)
	assert.Equal(t, int64(math.MaxInt64), q.Skip)
	assert.Equal(t, int64(2), q.Limit)
	assert.NoError(t, q.Validate())
}

func TestCacheModes(t *testing.T) {
	q := Find("category")
	assert.False(t, q.Cache.Enabled())

	q = q.WithCache()
	assert.True(t, q.Cache.Enabled())
	_, tagged := q.Cache.Tag()
	assert.False(t, tagged)

	q = q.WithCache("category:42")
	tag, tagged := q.Cache.Tag()
	assert.True(t, tagged)
	assert.Equal(t, "category:42", tag)

	_, tagged = CacheTagged("").Tag()
	assert.False(t, tagged)
	assert.True(t, CacheTagged("").Enabled())

	assert.False(t, q.WithoutCache().Cache.Enabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		ok   bool
	}{
		{"valid", Find("book").Where("_id", "x").SortBy("price", Desc).Take(10), true},
		{"empty collection", Find(""), false},
		{"bad collection", Find("book; drop"), false},
		{"bad filter field", Find("book").Where("a.b", 1), false},
		{"bad sort field", Find("book").SortBy("doc->'x'", Asc), false},
		{"bad direction", Find("book").SortBy("price", Direction(3)), false},
		{"negative skip", Find("book").Offset(-1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidQuery))
		})
	}
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection(-1)
	assert.True(t, ok)
	assert.Equal(t, Desc, d)
	_, ok = ParseDirection(0)
	assert.False(t, ok)
}
