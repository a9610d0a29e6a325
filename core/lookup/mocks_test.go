package lookup

import (
	"context"
	"sync"

	"gbbinfo-knowledge-api/core/domain"
)

// mockSearch is a mock implementation of the SearchProvider interface
type mockSearch struct {
	mu         sync.Mutex
	calls      int
	queries    []string
	searchFunc func(ctx context.Context, query string) (*domain.SearchResponse, error)
}

func (m *mockSearch) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	m.mu.Lock()
	m.calls++
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}
	return &domain.SearchResponse{}, nil
}

func (m *mockSearch) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockDirectory is a mock implementation of the SubjectDirectory interface
type mockDirectory struct {
	resolveFunc func(ctx context.Context, id int64, mode domain.Mode) (string, error)
}

func (m *mockDirectory) ResolveName(ctx context.Context, id int64, mode domain.Mode) (string, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, id, mode)
	}
	return "", nil
}

// mockRecorder is a mock implementation of the EventRecorder interface
type mockRecorder struct {
	mu         sync.Mutex
	events     []domain.LookupEvent
	recordFunc func(ctx context.Context, event domain.LookupEvent) error
}

func (m *mockRecorder) Record(ctx context.Context, event domain.LookupEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.recordFunc != nil {
		return m.recordFunc(ctx, event)
	}
	return nil
}

func (m *mockRecorder) recorded() []domain.LookupEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.LookupEvent(nil), m.events...)
}

// mockLLM is a mock implementation of the LLMProvider interface
type mockLLM struct {
	mu    sync.Mutex
	calls int
	reply string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.reply, nil
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) log(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.log(msg) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.log(msg) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.log(msg) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.log(msg) }

func (m *mockLogger) contains(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logged := range m.messages {
		if logged == msg {
			return true
		}
	}
	return false
}
