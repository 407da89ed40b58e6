// Package internal provides caching functionality for sanitized results.
// It keeps a size-bounded LRU with TTL so repeated sanitizing of the same
// document under the same policy is served from memory.
package internal

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache maps result keys to sanitized output. A Cache created with
// maxEntries <= 0 stores nothing. It is safe for concurrent use.
type Cache struct {
	lru *expirable.LRU[string, string]
}

func NewCache(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		return &Cache{}
	}
	// expirable treats ttl <= 0 as "never expire"
	return &Cache{lru: expirable.NewLRU[string, string](maxEntries, nil, ttl)}
}

func (c *Cache) Get(key string) (string, bool) {
	if c.lru == nil || key == "" {
		return "", false
	}
	return c.lru.Get(key)
}

func (c *Cache) Set(key, value string) {
	if c.lru == nil || key == "" {
		return
	}
	c.lru.Add(key, value)
}

// Len returns the number of stored entries, including expired ones not yet
// purged.
func (c *Cache) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

func (c *Cache) Clear() {
	if c.lru == nil {
		return
	}
	c.lru.Purge()
}
