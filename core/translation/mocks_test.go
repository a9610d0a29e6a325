package translation

import (
	"context"
	"sync"
	"time"

	coreerrors "gbbinfo-knowledge-api/core/errors"
)

// mockLLM is a mock implementation of the LLMProvider interface
type mockLLM struct {
	mu           sync.Mutex
	calls        int
	prompts      []string
	generateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt)
	}
	return `{"translated_text": "翻訳"}`, nil
}

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// memoryStore is an in-memory RecordStore keyed by record and column
type memoryStore struct {
	mu       sync.Mutex
	columns  map[string]map[string][]byte
	setErr   error
	setCalls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{columns: make(map[string]map[string][]byte)}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, coreerrors.ErrCacheMiss
}

func (s *memoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (s *memoryStore) GetColumn(ctx context.Context, key, column string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.columns[key][column]; ok {
		return v, nil
	}
	return nil, coreerrors.ErrCacheMiss
}

func (s *memoryStore) SetColumn(ctx context.Context, key, column string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	if s.columns[key] == nil {
		s.columns[key] = make(map[string][]byte)
	}
	s.columns[key][column] = value
	return nil
}

func (s *memoryStore) put(key, column, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.columns[key] == nil {
		s.columns[key] = make(map[string][]byte)
	}
	s.columns[key][column] = []byte(value)
}

// nopLogger discards log output
type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}
