package query

type cacheKind uint8

const (
	kindNone cacheKind = iota
	kindUntagged
	kindTagged
)

// CacheMode says whether a query result may be cached and under which tag.
// The zero value is NoCache.
type CacheMode struct {
	kind cacheKind
	tag  string
}

// NoCache disables caching; the query always hits the document store.
var NoCache = CacheMode{}

// CacheUntagged caches the result without associating it to a tag.
func CacheUntagged() CacheMode {
	return CacheMode{kind: kindUntagged}
}

// CacheTagged caches the result and records it under tag. An empty tag is
// treated as untagged, since the empty tag is reserved for flush-all.
func CacheTagged(tag string) CacheMode {
	if tag == "" {
		return CacheUntagged()
	}
	return CacheMode{kind: kindTagged, tag: tag}
}

func (m CacheMode) Enabled() bool {
	return m.kind != kindNone
}

// Tag returns the tag and whether the mode is tagged.
func (m CacheMode) Tag() (string, bool) {
	return m.tag, m.kind == kindTagged
}

func (m CacheMode) String() string {
	switch m.kind {
	case kindUntagged:
		return "cache"
	case kindTagged:
		return "cache(" + m.tag + ")"
	default:
		return "nocache"
	}
}
