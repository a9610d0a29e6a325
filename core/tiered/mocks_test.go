package tiered

import (
	"context"
	"sync"
	"time"

	coreerrors "gbbinfo-knowledge-api/core/errors"
)

// mapCache is a minimal local tier backed by a map
type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string][]byte)}
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return nil, coreerrors.ErrCacheMiss
	}
	return v, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *mapCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *mapCache) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// mockStore is a mock implementation of the RecordStore interface
type mockStore struct {
	getFunc       func(ctx context.Context, key string) ([]byte, error)
	setFunc       func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	getColumnFunc func(ctx context.Context, key, column string) ([]byte, error)
	setColumnFunc func(ctx context.Context, key, column string, value []byte, ttl time.Duration) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, coreerrors.ErrCacheMiss
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) GetColumn(ctx context.Context, key, column string) ([]byte, error) {
	if m.getColumnFunc != nil {
		return m.getColumnFunc(ctx, key, column)
	}
	return nil, coreerrors.ErrCacheMiss
}

func (m *mockStore) SetColumn(ctx context.Context, key, column string, value []byte, ttl time.Duration) error {
	if m.setColumnFunc != nil {
		return m.setColumnFunc(ctx, key, column, value, ttl)
	}
	return nil
}

// nopLogger discards log output
type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}
