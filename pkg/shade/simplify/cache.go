package simplify

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/shade/pkg/shade/internalerr"
)

// DefaultCacheSize bounds the number of cached simplifications.
const DefaultCacheSize = 4096

// Cache memoizes the results of another Simplifier. Construct one per process
// and share it; it is safe for concurrent use. Failed calls are not cached.
type Cache struct {
	inner Simplifier
	lru   *lru.Cache[string, []string]
}

// NewCache wraps inner with an LRU cache holding up to size entries.
func NewCache(inner Simplifier, size int) (*Cache, error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: nil simplifier", internalerr.ErrInvalidConfig)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: cache size %d", internalerr.ErrInvalidConfig, size)
	}
	c, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner, lru: c}, nil
}

// Simplify returns the cached result for word or asks the wrapped simplifier.
func (c *Cache) Simplify(ctx context.Context, word string) ([]string, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if words, ok := c.lru.Get(key); ok {
		return words, nil
	}
	words, err := c.inner.Simplify(ctx, key)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, words)
	return words, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}
