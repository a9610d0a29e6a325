// ABOUTME: In-memory cache implementation backed by patrickmn/go-cache
// ABOUTME: Serves as the process-local tier in front of the durable record store

package memory

import (
	"context"
	"time"

	coreerrors "gbbinfo-knowledge-api/core/errors"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache instance. Entries written
// with a zero TTL never expire; expired entries are purged every
// cleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &MemoryCache{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	value, found := c.items.Get(key)
	if !found {
		return nil, coreerrors.ErrCacheMiss
	}

	stored, ok := value.([]byte)
	if !ok {
		return nil, coreerrors.ErrCacheMiss
	}

	// Return a copy so callers can't mutate the cached bytes
	result := make([]byte, len(stored))
	copy(result, stored)
	return result, nil
}

// Set stores a value in the cache with the given TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	expiration := gocache.NoExpiration
	if ttl > 0 {
		expiration = ttl
	}
	c.items.Set(key, valueCopy, expiration)

	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c.items.Delete(key)
	return nil
}

// Count returns the number of entries, including expired ones not yet purged
func (c *MemoryCache) Count() int {
	return c.items.ItemCount()
}

// Flush removes every entry
func (c *MemoryCache) Flush() {
	c.items.Flush()
}
