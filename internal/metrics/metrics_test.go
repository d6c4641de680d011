package metrics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecorderCountsStoreAttempts(t *testing.T) {
	rec := NewRecorder()
	ctx := context.Background()

	rec.RecordStoreAttempt(ctx, "read_schedule", true, 5*time.Millisecond)
	rec.RecordStoreAttempt(ctx, "read_schedule", false, 5*time.Millisecond)
	rec.RecordStoreAttempt(ctx, "write_game", true, time.Millisecond)

	if got := rec.StoreAttempts("read_schedule"); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
	if got := rec.StoreFailures("read_schedule"); got != 1 {
		t.Fatalf("expected 1 failure, got %d", got)
	}
	if got := rec.StoreFailures("write_game"); got != 0 {
		t.Fatalf("expected no failures, got %d", got)
	}
	if got := rec.StoreAttempts("never_seen"); got != 0 {
		t.Fatalf("unknown op must read zero, got %d", got)
	}
}

func TestRecorderCountsCacheLookups(t *testing.T) {
	rec := NewRecorder()
	ctx := context.Background()

	rec.RecordCacheLookup(ctx, "all", false)
	rec.RecordCacheLookup(ctx, "all", true)
	rec.RecordCacheLookup(ctx, "all", true)

	if hits := rec.CacheHits("all"); hits != 2 {
		t.Fatalf("expected 2 hits, got %d", hits)
	}
	if misses := rec.CacheMisses("all"); misses != 1 {
		t.Fatalf("expected 1 miss, got %d", misses)
	}
}

func TestRecorderCountsFlushes(t *testing.T) {
	rec := NewRecorder()
	rec.RecordFlush(context.Background(), 2, 1, 0)
	rec.RecordFlush(context.Background(), 0, 0, 1)
	if got := rec.Flushes(); got != 2 {
		t.Fatalf("expected 2 flushes, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	ctx := context.Background()

	rec.RecordStoreAttempt(ctx, "read_schedule", true, time.Millisecond)
	rec.RecordCacheLookup(ctx, "all", true)
	rec.RecordFlush(ctx, 1, 1, 0)
	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	rec.RecordReloadCycle(time.Millisecond, errors.New("boom"))

	if rec.StoreAttempts("read_schedule") != 0 || rec.Flushes() != 0 {
		t.Fatalf("nil recorder must read zero")
	}
}

func TestSetupDisabled(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected a usable recorder")
	}
	if handler != nil {
		t.Fatalf("disabled telemetry must not expose a scrape handler")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	// The recorder still counts in memory without exporters.
	rec.RecordStoreAttempt(context.Background(), "read_teams", true, time.Millisecond)
	if rec.StoreAttempts("read_teams") != 1 {
		t.Fatalf("in-memory counting broken")
	}
}

func TestSetupEnabledServesPrometheusHandler(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer shutdown(context.Background())

	if handler == nil {
		t.Fatalf("expected a scrape handler")
	}
	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	rec.RecordReloadCycle(time.Millisecond, nil)
}
