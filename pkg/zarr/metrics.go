package zarr

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// MetricsRecorder receives one record per store operation.
type MetricsRecorder interface {
	RecordOp(op string, duration time.Duration, status string)
}

// Operation result statuses reported to a MetricsRecorder.
const (
	StatusHit   = "hit"
	StatusMiss  = "miss"
	StatusError = "error"
)

var expvarSeq uint64

// ExpvarMetricsRecorder publishes aggregate timing and result counters via
// expvar. It maintains duration totals in milliseconds per operation plus
// per-status counters, for deployments that prefer process-local metrics
// without external dependencies.
type ExpvarMetricsRecorder struct {
	name      string
	mu        sync.Mutex
	durations map[string]float64
	results   map[string]map[string]int64
}

// ExpvarMetricsSnapshot captures a read-only view of the recorded metrics.
type ExpvarMetricsSnapshot struct {
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Results     map[string]map[string]int64 `json:"results_total"`
	RecordedAt  time.Time                   `json:"recorded_at"`
}

// NewExpvarMetricsRecorder constructs an expvar-backed recorder and publishes
// it under the supplied name. When name is empty, a unique one is generated.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("zarr_store_metrics_%d", id)
	}
	rec := &ExpvarMetricsRecorder{
		name:      name,
		durations: make(map[string]float64),
		results:   make(map[string]map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarMetricsRecorder) Name() string { return r.name }

// RecordOp accumulates one operation sample.
func (r *ExpvarMetricsRecorder) RecordOp(op string, duration time.Duration, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations[op] += float64(duration) / float64(time.Millisecond)
	if r.results[op] == nil {
		r.results[op] = make(map[string]int64)
	}
	r.results[op][status]++
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	durations := make(map[string]float64, len(r.durations))
	for op, total := range r.durations {
		durations[op] = total
	}
	results := make(map[string]map[string]int64, len(r.results))
	for op, statusCounts := range r.results {
		cpy := make(map[string]int64, len(statusCounts))
		for status, count := range statusCounts {
			cpy[status] = count
		}
		results[op] = cpy
	}
	return ExpvarMetricsSnapshot{
		DurationsMS: durations,
		Results:     results,
		RecordedAt:  time.Now().UTC(),
	}
}

// WithMetrics wraps a store so every Get and Has reports its duration and
// hit/miss/error outcome to rec.
func WithMetrics(st Store, rec MetricsRecorder) Store {
	return &instrumentedStore{inner: st, rec: rec}
}

type instrumentedStore struct {
	inner Store
	rec   MetricsRecorder
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.inner.Get(ctx, key)
	s.rec.RecordOp("get", time.Since(start), statusOf(err))
	return data, err
}

func (s *instrumentedStore) Has(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	ok, err := s.inner.Has(ctx, key)
	status := StatusHit
	switch {
	case err != nil:
		status = StatusError
	case !ok:
		status = StatusMiss
	}
	s.rec.RecordOp("has", time.Since(start), status)
	return ok, err
}

func (s *instrumentedStore) Driver() Driver { return s.inner.Driver() }

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusHit
	case errors.Is(err, ErrKeyNotFound):
		return StatusMiss
	default:
		return StatusError
	}
}
