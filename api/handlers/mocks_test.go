package handlers

import (
	"context"

	"gbbinfo-knowledge-api/core/domain"
	"gbbinfo-knowledge-api/core/tiered"
)

// mockLookupService is a mock implementation of the lookup service
type mockLookupService struct {
	getLinksFunc  func(ctx context.Context, ref domain.SubjectRef) (*domain.CurationResult, error)
	getAnswerFunc func(ctx context.Context, ref domain.SubjectRef, language string) (string, error)
}

func (m *mockLookupService) GetLinks(ctx context.Context, ref domain.SubjectRef) (*domain.CurationResult, error) {
	if m.getLinksFunc != nil {
		return m.getLinksFunc(ctx, ref)
	}
	return domain.EmptyCurationResult(), nil
}

func (m *mockLookupService) GetTranslatedAnswer(ctx context.Context, ref domain.SubjectRef, language string) (string, error) {
	if m.getAnswerFunc != nil {
		return m.getAnswerFunc(ctx, ref, language)
	}
	return "", nil
}

// mockStatsSource is a mock implementation of CacheStatsSource
type mockStatsSource struct {
	stats  tiered.Stats
	resets int
}

func (m *mockStatsSource) Stats() tiered.Stats {
	return m.stats
}

func (m *mockStatsSource) ResetStats() {
	m.resets++
	m.stats = tiered.Stats{HasDurable: m.stats.HasDurable}
}

// mockDurableStats is a mock implementation of DurableStatsSource
type mockDurableStats struct {
	stats map[string]interface{}
	err   error
}

func (m *mockDurableStats) Stats() (map[string]interface{}, error) {
	return m.stats, m.err
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}
