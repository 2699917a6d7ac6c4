package mention

import (
	"strings"
	"sync"
	"time"

	"github.com/tchap/go-patricia/v2/patricia"
)

const defaultCacheEntries = 256

type cacheEntry struct {
	items   []Entity
	expires time.Time
}

// resultCache memoizes resolved queries for a short time. Keys are
// normalized queries stored in a patricia trie.
type resultCache struct {
	trie  *patricia.Trie
	order []string
	ttl   time.Duration
	max   int
	now   func() time.Time
	mu    sync.Mutex
}

func newResultCache(ttl time.Duration, maxEntries int) *resultCache {
	if maxEntries <= 0 {
		maxEntries = defaultCacheEntries
	}
	return &resultCache{
		trie: patricia.NewTrie(),
		ttl:  ttl,
		max:  maxEntries,
		now:  time.Now,
	}
}

// cacheKey folds case for search queries only. Link slugs are case
// sensitive.
func cacheKey(query string) string {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, SecureScheme) {
		return query
	}
	return strings.ToLower(query)
}

func (c *resultCache) enabled() bool {
	return c != nil && c.ttl > 0
}

func (c *resultCache) get(query string) ([]Entity, bool) {
	if !c.enabled() {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := patricia.Prefix(cacheKey(query))
	item := c.trie.Get(key)
	if item == nil {
		return nil, false
	}
	entry := item.(cacheEntry)
	if c.now().After(entry.expires) {
		c.trie.Delete(key)
		c.dropOrder(string(key))
		return nil, false
	}
	return append([]Entity(nil), entry.items...), true
}

func (c *resultCache) put(query string, items []Entity) {
	if !c.enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query)
	if c.trie.Get(patricia.Prefix(key)) == nil {
		c.order = append(c.order, key)
	}
	c.trie.Set(patricia.Prefix(key), cacheEntry{
		items:   append([]Entity(nil), items...),
		expires: c.now().Add(c.ttl),
	})
	c.evict()
}

// evict drops expired entries, then the oldest ones, until under max.
func (c *resultCache) evict() {
	if len(c.order) <= c.max {
		return
	}
	now := c.now()
	var expired []patricia.Prefix
	_ = c.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		if now.After(item.(cacheEntry).expires) {
			expired = append(expired, append(patricia.Prefix(nil), prefix...))
		}
		return nil
	})
	for _, key := range expired {
		c.trie.Delete(key)
	}

	kept := c.order[:0]
	for _, key := range c.order {
		if c.trie.Get(patricia.Prefix(key)) != nil {
			kept = append(kept, key)
		}
	}
	c.order = kept

	for len(c.order) > c.max {
		c.trie.Delete(patricia.Prefix(c.order[0]))
		c.order = c.order[1:]
	}
}

func (c *resultCache) dropOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *resultCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	_ = c.trie.Visit(func(patricia.Prefix, patricia.Item) error {
		n++
		return nil
	})
	return n
}
