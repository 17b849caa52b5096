package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SlugCache keeps a bounded slug-to-SID mapping in process memory. Entries
// expire so a slug freed by a delete eventually stops resolving even if the
// eviction signal was lost.
type SlugCache struct {
	entries *expirable.LRU[string, string]
}

func NewSlugCache(size int, ttl time.Duration) *SlugCache {
	if size <= 0 {
		size = 1024
	}
	return &SlugCache{
		entries: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

func (c *SlugCache) Get(slug string) (string, bool) {
	return c.entries.Get(slug)
}

func (c *SlugCache) Add(slug, sid string) {
	c.entries.Add(slug, sid)
}

func (c *SlugCache) Remove(slug string) {
	c.entries.Remove(slug)
}
