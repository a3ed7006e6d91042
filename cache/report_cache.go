package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"salesboard/analytics"
)

// ReportCache memoizes KPI snapshots and rollups per (dataset, parameters).
// Datasets are immutable, so a key never needs invalidation; entries simply
// expire. Every stage of the engine is pure, which is what makes this a
// safe optimization rather than a correctness hazard.
//
// The cache is an injectable collaborator: a ReportCache over a nil Redis
// client silently misses on every lookup and callers just recompute.
type ReportCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewReportCache creates a report cache over an optional Redis client.
func NewReportCache(redis *RedisClient, ttl time.Duration) *ReportCache {
	return &ReportCache{redis: redis, ttl: ttl}
}

// GetSnapshot retrieves a memoized KPI snapshot.
func (c *ReportCache) GetSnapshot(ctx context.Context, datasetID, paramsHash string) (*analytics.Snapshot, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	key := fmt.Sprintf("report:kpi:%s:%s", datasetID, paramsHash)
	var snapshot analytics.Snapshot
	if err := c.redis.Get(ctx, key, &snapshot); err != nil {
		return nil, false
	}
	return &snapshot, true
}

// SetSnapshot memoizes a KPI snapshot. Failures are the caller's to ignore;
// a cold cache only costs recomputation.
func (c *ReportCache) SetSnapshot(ctx context.Context, datasetID, paramsHash string, s analytics.Snapshot) error {
	if c == nil || c.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	key := fmt.Sprintf("report:kpi:%s:%s", datasetID, paramsHash)
	return c.redis.Set(ctx, key, s, c.ttl)
}

// GetRollup retrieves a memoized rollup for one dimension.
func (c *ReportCache) GetRollup(ctx context.Context, datasetID string, dim analytics.Dimension, paramsHash string) ([]analytics.GroupRow, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	key := fmt.Sprintf("report:rollup:%s:%s:%s", datasetID, dim, paramsHash)
	var rows []analytics.GroupRow
	if err := c.redis.Get(ctx, key, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// SetRollup memoizes a rollup.
func (c *ReportCache) SetRollup(ctx context.Context, datasetID string, dim analytics.Dimension, paramsHash string, rows []analytics.GroupRow) error {
	if c == nil || c.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	key := fmt.Sprintf("report:rollup:%s:%s:%s", datasetID, dim, paramsHash)
	return c.redis.Set(ctx, key, rows, c.ttl)
}

// Invalidate purges every memoized report of one dataset. Entries would
// expire on their own, but a deleted dataset should stop serving reports
// immediately.
func (c *ReportCache) Invalidate(ctx context.Context, datasetID string) error {
	if c == nil || c.redis == nil {
		return nil
	}

	for _, pattern := range []string{
		fmt.Sprintf("report:kpi:%s:*", datasetID),
		fmt.Sprintf("report:rollup:%s:*", datasetID),
	} {
		keys, err := c.redis.Keys(ctx, pattern)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := c.redis.Delete(ctx, key); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParamsHash fingerprints filter criteria (or any parameter tuple) for use
// in cache keys.
func ParamsHash(params interface{}) string {
	jsonData, _ := json.Marshal(params)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf("%x", hash[:8])
}
