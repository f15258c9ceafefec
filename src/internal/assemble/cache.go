package assemble

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"

	"citeformat/src/internal/entry"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/styles"
)

// Cache stores assembled results by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(key string) (Result, bool, error)
	Put(key string, res Result) error
}

// keySpace scopes cache keys to this module's key format.
var keySpace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("citeformat/assemble/v1"))

// CacheKey derives the cache key for one render: the document id, the full
// style rule set, the markup, every occurrence and every resolved record.
// Changing any of them changes the key, so stale entries are never served.
func CacheKey(docID string, rs styles.RuleSet, m entry.Markup, occs []schema.Occurrence, records map[string]schema.Record) string {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	recs := make([]schema.Record, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, records[id])
	}
	fingerprint, err := json.Marshal(struct {
		Doc     string
		Style   styles.RuleSet
		Markup  string
		Occs    []schema.Occurrence
		Records []schema.Record
	}{docID, rs, m.String(), occs, recs})
	if err != nil {
		// unreachable for these types; a random key simply misses
		return uuid.NewString()
	}
	return uuid.NewSHA1(keySpace, fingerprint).String()
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	results map[string]Result
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{results: make(map[string]Result)}
}

// Get implements Cache.
func (c *MemoryCache) Get(key string) (Result, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[key]
	return r.clone(), ok, nil
}

// Put implements Cache.
func (c *MemoryCache) Put(key string, res Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = res.clone()
	return nil
}

// Len is the number of cached results.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// Purge drops every cached result.
func (c *MemoryCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = make(map[string]Result)
}

func (r Result) clone() Result {
	cp := func(s []string) []string {
		if s == nil {
			return nil
		}
		return append([]string(nil), s...)
	}
	return Result{Entries: cp(r.Entries), Order: cp(r.Order), Inline: cp(r.Inline), Missing: cp(r.Missing)}
}
