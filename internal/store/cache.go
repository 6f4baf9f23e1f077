package store

import lru "github.com/hashicorp/golang-lru/v2"

// Cache provides in-memory caching for decoded values.
type Cache interface {
	Get(key string) (string, bool)
	Add(key string, value string)
	Remove(key string)
	Clear()
	Len() int
}

// LRUCache evicts the least recently used entry once maxSize is reached.
// A maxSize of zero or less disables caching.
type LRUCache struct {
	lru *lru.Cache[string, string]
}

func NewLRUCache(maxSize int) *LRUCache {
	if maxSize <= 0 {
		return &LRUCache{}
	}
	// New only fails for a non-positive size.
	c, _ := lru.New[string, string](maxSize)
	return &LRUCache{lru: c}
}

func (c *LRUCache) Get(key string) (string, bool) {
	if c.lru == nil {
		return "", false
	}
	return c.lru.Get(key)
}

func (c *LRUCache) Add(key string, value string) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, value)
}

func (c *LRUCache) Remove(key string) {
	if c.lru == nil {
		return
	}
	c.lru.Remove(key)
}

func (c *LRUCache) Clear() {
	if c.lru == nil {
		return
	}
	c.lru.Purge()
}

func (c *LRUCache) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
