package handlers

import (
	"context"
	"net/http"

	"gbbinfo-knowledge-api/api/dto/mappers"
	"gbbinfo-knowledge-api/api/dto/responses"
	"gbbinfo-knowledge-api/core/interfaces"
	"gbbinfo-knowledge-api/core/tiered"
	"github.com/danielgtaylor/huma/v2"
)

// CacheStatsSource exposes the tiered cache counters
type CacheStatsSource interface {
	Stats() tiered.Stats
	ResetStats()
}

// DurableStatsSource is implemented by durable stores that report details
type DurableStatsSource interface {
	Stats() (map[string]interface{}, error)
}

// CacheStatsHandler serves cache statistics
type CacheStatsHandler struct {
	cache   CacheStatsSource
	durable DurableStatsSource
	logger  interfaces.Logger
}

// NewCacheStatsHandler creates a cache statistics handler. durable may be nil.
func NewCacheStatsHandler(cache CacheStatsSource, durable DurableStatsSource, logger interfaces.Logger) *CacheStatsHandler {
	return &CacheStatsHandler{cache: cache, durable: durable, logger: logger}
}

// RegisterRoutes registers the cache statistics routes
func (h *CacheStatsHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getCacheStats",
		Method:      http.MethodGet,
		Path:        "/api/cache-stats",
		Summary:     "Cache statistics",
		Tags:        []string{"Cache"},
	}, h.GetStats)

	huma.Register(api, huma.Operation{
		OperationID: "resetCacheStats",
		Method:      http.MethodPost,
		Path:        "/api/cache-stats/reset",
		Summary:     "Reset cache statistics",
		Tags:        []string{"Cache"},
	}, h.ResetStats)
}

// CacheStatsOutput defines the output for the GetStats operation
type CacheStatsOutput struct {
	Body responses.CacheStatsResponse
}

// GetStats handles GET /api/cache-stats
func (h *CacheStatsHandler) GetStats(ctx context.Context, input *struct{}) (*CacheStatsOutput, error) {
	var durable map[string]interface{}
	if h.durable != nil {
		details, err := h.durable.Stats()
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("Failed to read durable store statistics", map[string]interface{}{
					"error": err.Error(),
				})
			}
		} else {
			durable = details
		}
	}

	return &CacheStatsOutput{
		Body: responses.CacheStatsResponse{Data: mappers.ToCacheStatsData(h.cache.Stats(), durable)},
	}, nil
}

// MessageOutput wraps a plain acknowledgement
type MessageOutput struct {
	Body responses.MessageResponse
}

// ResetStats handles POST /api/cache-stats/reset
func (h *CacheStatsHandler) ResetStats(ctx context.Context, input *struct{}) (*MessageOutput, error) {
	h.cache.ResetStats()
	return &MessageOutput{Body: responses.MessageResponse{Message: "Cache statistics reset"}}, nil
}
