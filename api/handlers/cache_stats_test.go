package handlers

import (
	"errors"
	"net/http"
	"testing"

	"gbbinfo-knowledge-api/core/tiered"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStatsHandler_GetStats(t *testing.T) {
	source := &mockStatsSource{stats: tiered.Stats{LocalHits: 4, DurableHits: 1, Misses: 5, HitRate: 0.5, HasDurable: true}}
	durable := &mockDurableStats{stats: map[string]interface{}{"total_records": 7}}

	_, api := humatest.New(t)
	NewCacheStatsHandler(source, durable, nopLogger{}).RegisterRoutes(api)

	resp := api.Get("/api/cache-stats")
	require.Equal(t, http.StatusOK, resp.Code)

	data := decodeBody(t, resp.Body.Bytes())["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["local_hits"])
	assert.Equal(t, float64(1), data["durable_hits"])
	assert.Equal(t, float64(5), data["misses"])
	assert.Equal(t, 0.5, data["hit_rate"])
	assert.Equal(t, true, data["has_durable"])
	assert.Equal(t, map[string]interface{}{"total_records": float64(7)}, data["durable"])
}

func TestCacheStatsHandler_DurableStatsFailureOmitted(t *testing.T) {
	source := &mockStatsSource{}
	durable := &mockDurableStats{err: errors.New("database is locked")}

	_, api := humatest.New(t)
	NewCacheStatsHandler(source, durable, nopLogger{}).RegisterRoutes(api)

	resp := api.Get("/api/cache-stats")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), `"durable":`)
}

func TestCacheStatsHandler_Reset(t *testing.T) {
	source := &mockStatsSource{stats: tiered.Stats{LocalHits: 9}}

	_, api := humatest.New(t)
	NewCacheStatsHandler(source, nil, nil).RegisterRoutes(api)

	resp := api.Post("/api/cache-stats/reset")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "message")
	assert.Equal(t, 1, source.resets)

	resp = api.Get("/api/cache-stats")
	data := decodeBody(t, resp.Body.Bytes())["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["local_hits"])
}

func TestRegisterHealth_FromCacheStatsSuite(t *testing.T) {
	_, api := humatest.New(t)
	RegisterHealth(api, "1.0.0")

	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp.Body.Bytes())
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.0.0", body["version"])
}
