package metrics

import (
	"context"
	"sync"
	"time"
)

type storeStats struct {
	attempts    int
	failures    int
	lastLatency time.Duration
}

type cacheStats struct {
	hits   int
	misses int
}

// Recorder captures lightweight in-memory metrics alongside the otel
// instruments, so tests and diagnostics can read counters without a
// metrics backend.
type Recorder struct {
	mu      sync.Mutex
	store   map[string]*storeStats
	cache   map[string]*cacheStats
	flushes int
	otel    *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		store: make(map[string]*storeStats),
		cache: make(map[string]*cacheStats),
		otel:  otel,
	}
}

// RecordStoreAttempt counts one record store operation attempt.
func (r *Recorder) RecordStoreAttempt(ctx context.Context, op string, success bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats, ok := r.store[op]
	if !ok {
		stats = &storeStats{}
		r.store[op] = stats
	}
	stats.attempts++
	stats.lastLatency = elapsed
	if !success {
		stats.failures++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreAttempt(op, success, elapsed)
	}
}

// RecordCacheLookup counts one cache view lookup.
func (r *Recorder) RecordCacheLookup(ctx context.Context, view string, hit bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats, ok := r.cache[view]
	if !ok {
		stats = &cacheStats{}
		r.cache[view] = stats
	}
	if hit {
		stats.hits++
	} else {
		stats.misses++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(view, hit)
	}
}

// RecordFlush tracks one staged mutation flush.
func (r *Recorder) RecordFlush(ctx context.Context, matches, results, failed int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.flushes++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordFlush(matches, results, failed)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordReloadCycle tracks background reload cycles and errors.
func (r *Recorder) RecordReloadCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordReload(duration, err)
}

// StoreAttempts returns the attempts recorded for a store operation.
func (r *Recorder) StoreAttempts(op string) int {
	attempts, _ := r.storeSnapshot(op)
	return attempts
}

// StoreFailures returns the failed attempts recorded for a store operation.
func (r *Recorder) StoreFailures(op string) int {
	_, failures := r.storeSnapshot(op)
	return failures
}

// CacheHits returns the hits recorded for a cache view.
func (r *Recorder) CacheHits(view string) int {
	hits, _ := r.cacheSnapshot(view)
	return hits
}

// CacheMisses returns the misses recorded for a cache view.
func (r *Recorder) CacheMisses(view string) int {
	_, misses := r.cacheSnapshot(view)
	return misses
}

// Flushes returns the recorded flush count.
func (r *Recorder) Flushes() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}

func (r *Recorder) storeSnapshot(op string) (attempts, failures int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.store[op]; ok && stats != nil {
		return stats.attempts, stats.failures
	}
	return 0, 0
}

func (r *Recorder) cacheSnapshot(view string) (hits, misses int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.cache[view]; ok && stats != nil {
		return stats.hits, stats.misses
	}
	return 0, 0
}
