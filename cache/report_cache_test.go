package cache

import (
	"context"
	"testing"

	"salesboard/analytics"
)

func TestParamsHashIsStable(t *testing.T) {
	c := analytics.Criteria{Managers: []string{"Ivanov"}, MinAmount: 500}

	if ParamsHash(c) != ParamsHash(c) {
		t.Error("identical criteria produced different hashes")
	}

	other := analytics.Criteria{Managers: []string{"Petrov"}, MinAmount: 500}
	if ParamsHash(c) == ParamsHash(other) {
		t.Error("different criteria produced the same hash")
	}
}

func TestReportCacheWithoutRedisMisses(t *testing.T) {
	// A cache over a nil client must miss cleanly, never panic: the
	// engine is correct without memoization.
	cache := NewReportCache(nil, 0)
	ctx := context.Background()

	if _, ok := cache.GetSnapshot(ctx, "ds", "hash"); ok {
		t.Error("nil-backed cache reported a snapshot hit")
	}
	if _, ok := cache.GetRollup(ctx, "ds", analytics.DimManager, "hash"); ok {
		t.Error("nil-backed cache reported a rollup hit")
	}
	if err := cache.SetSnapshot(ctx, "ds", "hash", analytics.Snapshot{}); err == nil {
		t.Error("expected error when storing without redis")
	}
	if err := cache.Invalidate(ctx, "ds"); err != nil {
		t.Errorf("invalidating without redis should be a no-op, got %v", err)
	}
}
