package pipeline

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ValueCache caches computed value tables. Keys embed the upstream generation
// fingerprint, so entries for stale data are simply never looked up again;
// the TTL only bounds memory held for abandoned keys. A cache miss is always
// satisfiable by recomputation with identical results.
type ValueCache interface {
	Get(key string) (*ValueTable, bool)
	Add(key string, table *ValueTable)
}

// LRUValueCache is an expiring LRU cache of value tables.
type LRUValueCache struct {
	lru *expirable.LRU[string, *ValueTable]
}

func NewLRUValueCache(size int, ttl time.Duration) *LRUValueCache {
	return &LRUValueCache{
		lru: expirable.NewLRU[string, *ValueTable](size, nil, ttl),
	}
}

func (c *LRUValueCache) Get(key string) (*ValueTable, bool) {
	return c.lru.Get(key)
}

func (c *LRUValueCache) Add(key string, table *ValueTable) {
	c.lru.Add(key, table)
}

// NoopCache disables caching; every computation runs from source data. Used
// in tests and as a fallback when caching is disabled by configuration.
type NoopCache struct{}

func (NoopCache) Get(string) (*ValueTable, bool) { return nil, false }

func (NoopCache) Add(string, *ValueTable) {}
