// ABOUTME: Two-level cache combining a process-local tier with a durable record store
// ABOUTME: Reads fall through local to durable with backfill; durable failures are explicit results

package tiered

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"gbbinfo-knowledge-api/core/domain"
	coreerrors "gbbinfo-knowledge-api/core/errors"
	"gbbinfo-knowledge-api/core/interfaces"
)

// recordColumns are invalidated in the local tier whenever a whole record is replaced
var recordColumns = []string{
	domain.ColumnSearchResults,
	domain.ColumnAnswer,
	domain.ColumnAnswerTranslations,
}

// Cache reads through the local tier to the durable store and backfills
// the local tier on durable hits. Writes go to the local tier first so a
// durable failure never loses the value for the rest of the process.
type Cache struct {
	local   interfaces.Cache
	durable interfaces.RecordStore
	logger  interfaces.Logger

	localHits     atomic.Int64
	durableHits   atomic.Int64
	misses        atomic.Int64
	durableErrors atomic.Int64
}

// Stats is a snapshot of the cache counters
type Stats struct {
	LocalHits     int64   `json:"local_hits"`
	DurableHits   int64   `json:"durable_hits"`
	Misses        int64   `json:"misses"`
	DurableErrors int64   `json:"durable_errors"`
	HitRate       float64 `json:"hit_rate"`
	LocalEntries  int     `json:"local_entries"`
	HasDurable    bool    `json:"has_durable"`
}

// New creates a tiered cache from deps.Cache (local) and deps.Store
// (durable, may be nil).
func New(deps interfaces.Dependencies) *Cache {
	return &Cache{
		local:   deps.Cache,
		durable: deps.Store,
		logger:  deps.Logger,
	}
}

// ColumnKey is the local-tier key of one column of a record
func ColumnKey(key, column string) string {
	return key + ":" + column
}

// Get loads a whole record into dest. A non-nil error is always a
// *errors.CacheError from the durable tier and is reported as a miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c.readLocal(ctx, key, dest) {
		c.localHits.Add(1)
		return true, nil
	}

	if c.durable == nil {
		c.misses.Add(1)
		return false, nil
	}

	data, err := c.durable.Get(ctx, key)
	return c.finishDurableRead(ctx, "get", key, "", key, data, err, dest)
}

// Set writes a whole record to both tiers
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return coreerrors.WrapError(err, "failed to encode cache value")
	}

	c.writeLocal(ctx, key, data, ttl)
	for _, column := range recordColumns {
		c.deleteLocal(ctx, ColumnKey(key, column))
	}

	if c.durable == nil {
		return nil
	}
	if err := c.durable.Set(ctx, key, data, ttl); err != nil {
		return c.durableFailure("set", key, "", err)
	}
	return nil
}

// GetColumn loads one column of a record into dest. The local tier is
// checked for the column key and then for a mirrored whole record.
func (c *Cache) GetColumn(ctx context.Context, key, column string, dest interface{}) (bool, error) {
	localKey := ColumnKey(key, column)
	if c.readLocal(ctx, localKey, dest) || c.readLocalRecordColumn(ctx, key, column, dest) {
		c.localHits.Add(1)
		return true, nil
	}

	return c.RefreshColumn(ctx, key, column, dest)
}

// RefreshColumn reads one column from the durable tier only, bypassing the
// local tier, and backfills the local tier on a hit.
func (c *Cache) RefreshColumn(ctx context.Context, key, column string, dest interface{}) (bool, error) {
	if c.durable == nil {
		c.misses.Add(1)
		return false, nil
	}

	data, err := c.durable.GetColumn(ctx, key, column)
	return c.finishDurableRead(ctx, "get", key, column, ColumnKey(key, column), data, err, dest)
}

// SetColumn writes one column to both tiers. The local whole-record mirror
// is dropped since it no longer reflects the column.
func (c *Cache) SetColumn(ctx context.Context, key, column string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return coreerrors.WrapError(err, "failed to encode cache column")
	}

	c.writeLocal(ctx, ColumnKey(key, column), data, ttl)
	c.deleteLocal(ctx, key)

	if c.durable == nil {
		return nil
	}
	if err := c.durable.SetColumn(ctx, key, column, data, ttl); err != nil {
		return c.durableFailure("set", key, column, err)
	}
	return nil
}

// Stats returns a snapshot of the counters
func (c *Cache) Stats() Stats {
	stats := Stats{
		LocalHits:     c.localHits.Load(),
		DurableHits:   c.durableHits.Load(),
		Misses:        c.misses.Load(),
		DurableErrors: c.durableErrors.Load(),
		HasDurable:    c.durable != nil,
	}

	total := stats.LocalHits + stats.DurableHits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.LocalHits+stats.DurableHits) / float64(total)
	}

	if counter, ok := c.local.(interface{ Count() int }); ok {
		stats.LocalEntries = counter.Count()
	}

	return stats
}

// ResetStats zeroes the counters
func (c *Cache) ResetStats() {
	c.localHits.Store(0)
	c.durableHits.Store(0)
	c.misses.Store(0)
	c.durableErrors.Store(0)
}

func (c *Cache) finishDurableRead(ctx context.Context, op, key, column, localKey string, data []byte, err error, dest interface{}) (bool, error) {
	if err != nil {
		if coreerrors.IsCacheMiss(err) {
			c.misses.Add(1)
			return false, nil
		}
		c.misses.Add(1)
		return false, c.durableFailure(op, key, column, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.misses.Add(1)
		return false, c.durableFailure("decode", key, column, err)
	}

	c.durableHits.Add(1)
	c.writeLocal(ctx, localKey, data, 0)
	return true, nil
}

func (c *Cache) readLocal(ctx context.Context, key string, dest interface{}) bool {
	if c.local == nil {
		return false
	}

	data, err := c.local.Get(ctx, key)
	if err != nil {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logWarn("Dropping undecodable local cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		c.deleteLocal(ctx, key)
		return false
	}
	return true
}

// readLocalRecordColumn serves a column from the local whole-record mirror
// and backfills the column key.
func (c *Cache) readLocalRecordColumn(ctx context.Context, key, column string, dest interface{}) bool {
	if c.local == nil {
		return false
	}

	data, err := c.local.Get(ctx, key)
	if err != nil {
		return false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return false
	}
	raw, ok := fields[column]
	if !ok || string(raw) == "null" {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}

	c.writeLocal(ctx, ColumnKey(key, column), raw, 0)
	return true
}

func (c *Cache) writeLocal(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if c.local == nil {
		return
	}
	if err := c.local.Set(ctx, key, data, ttl); err != nil {
		c.logWarn("Failed to write local cache", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (c *Cache) deleteLocal(ctx context.Context, key string) {
	if c.local == nil {
		return
	}
	_ = c.local.Delete(ctx, key)
}

// durableFailure logs and counts a durable-tier failure and wraps it
func (c *Cache) durableFailure(op, key, column string, err error) error {
	c.durableErrors.Add(1)
	cacheErr := &coreerrors.CacheError{Op: op, Key: key, Column: column, Err: err}
	if c.logger != nil {
		c.logger.Error("Durable cache operation failed", map[string]interface{}{
			"op":     op,
			"key":    key,
			"column": column,
			"error":  err.Error(),
		})
	}
	return cacheErr
}

func (c *Cache) logWarn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}
