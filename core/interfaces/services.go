// ABOUTME: Service interfaces for the external collaborators of the core
// ABOUTME: Defines contracts for search, text generation, subject directory and analytics

package interfaces

import (
	"context"

	"gbbinfo-knowledge-api/core/domain"
)

// SearchProvider runs a web search and returns ranked results
type SearchProvider interface {
	Search(ctx context.Context, query string) (*domain.SearchResponse, error)
}

// LLMProvider sends a prompt to a text-generation model. The returned text
// carries no structural guarantee.
type LLMProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SubjectDirectory resolves a subject id to its display name.
// An empty name with a nil error means the subject does not exist.
type SubjectDirectory interface {
	ResolveName(ctx context.Context, id int64, mode domain.Mode) (string, error)
}

// EventRecorder persists lookup events for analytics
type EventRecorder interface {
	Record(ctx context.Context, event domain.LookupEvent) error
}
