// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the interface for the process-local cache tier.
// Implementations store opaque JSON payloads keyed by string.
//
// Example usage:
//
//	cache := someCache // implements Cache interface
//
//	// Store a value
//	err := cache.Set(ctx, "search_WING", recordJSON, 0)
//
//	// Retrieve a value
//	data, err := cache.Get(ctx, "search_WING")
//	if err != nil {
//		// handle error or cache miss
//	}
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns errors.ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}

// RecordStore defines the durable cache tier. Besides whole-record access it
// exposes per-column reads and writes so that one column of a record (for
// example the answer translations) can be fetched or updated without touching
// the others.
type RecordStore interface {
	// Get returns the whole record as JSON.
	// Returns errors.ErrCacheMiss if the record doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the whole record. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetColumn returns a single column of the record as JSON.
	// Returns errors.ErrCacheMiss if the record or column doesn't exist.
	GetColumn(ctx context.Context, key, column string) ([]byte, error)

	// SetColumn writes a single column, creating the record when needed.
	SetColumn(ctx context.Context, key, column string, value []byte, ttl time.Duration) error
}
