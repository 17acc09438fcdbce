// Package usage keeps in-memory API usage counters: per endpoint, per client
// and per request label (the resolved analytics time range).
package usage

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/stat"
)

// LabelKey is the echo context key a handler sets to attribute a request to a
// label, e.g. the time range it served.
const LabelKey = "usage_label"

// RequestMetric captures a single request for usage accounting.
type RequestMetric struct {
	Timestamp  time.Time     `json:"timestamp"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code"`
	Duration   time.Duration `json:"duration"`
	ClientID   string        `json:"client_id"`
	Label      string        `json:"label,omitempty"`
}

type endpointStats struct {
	path          string
	totalRequests int64
	totalErrors   int64
	totalDuration int64 // nanoseconds
	statusCounts  map[int]int64
}

// EndpointSummary aggregates requests for one path.
type EndpointSummary struct {
	Path            string        `json:"path"`
	TotalRequests   int64         `json:"total_requests"`
	ErrorRate       float64       `json:"error_rate"`
	AvgLatency      time.Duration `json:"avg_latency"`
	P95Latency      time.Duration `json:"p95_latency"`
	StatusBreakdown map[int]int64 `json:"status_breakdown"`
}

// LabelCount is the number of requests attributed to a label.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// Overview is the high-level usage summary.
type Overview struct {
	TotalRequests   int64              `json:"total_requests"`
	TotalErrors     int64              `json:"total_errors"`
	ErrorRate       float64            `json:"error_rate"`
	AvgLatency      time.Duration      `json:"avg_latency"`
	UniqueClients   int                `json:"unique_clients"`
	UniqueEndpoints int                `json:"unique_endpoints"`
	TopEndpoints    []*EndpointSummary `json:"top_endpoints"`
	Labels          []LabelCount       `json:"labels"`
}

// Tracker records request metrics into a fixed-size ring buffer and keeps
// running counters. Safe for concurrent use.
type Tracker struct {
	mu         sync.RWMutex
	metrics    []*RequestMetric
	maxMetrics int
	writePos   int
	endpoints  map[string]*endpointStats
	clients    map[string]int64
	labels     map[string]int64

	totalRequests int64
	totalErrors   int64
	totalDuration int64
}

// NewTracker creates a tracker whose ring buffer holds maxMetrics requests.
func NewTracker(maxMetrics int) *Tracker {
	if maxMetrics <= 0 {
		maxMetrics = 10000
	}
	return &Tracker{
		metrics:    make([]*RequestMetric, 0, maxMetrics),
		maxMetrics: maxMetrics,
		endpoints:  make(map[string]*endpointStats),
		clients:    make(map[string]int64),
		labels:     make(map[string]int64),
	}
}

// Record adds a metric to the buffer and counters.
func (t *Tracker) Record(m *RequestMetric) {
	isError := m.StatusCode >= 400

	atomic.AddInt64(&t.totalRequests, 1)
	if isError {
		atomic.AddInt64(&t.totalErrors, 1)
	}
	atomic.AddInt64(&t.totalDuration, int64(m.Duration))

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.metrics) < t.maxMetrics {
		t.metrics = append(t.metrics, m)
	} else {
		t.metrics[t.writePos] = m
	}
	t.writePos = (t.writePos + 1) % t.maxMetrics

	ep, ok := t.endpoints[m.Path]
	if !ok {
		ep = &endpointStats{path: m.Path, statusCounts: make(map[int]int64)}
		t.endpoints[m.Path] = ep
	}
	ep.totalRequests++
	if isError {
		ep.totalErrors++
	}
	ep.totalDuration += int64(m.Duration)
	ep.statusCounts[m.StatusCode]++

	if m.ClientID != "" {
		t.clients[m.ClientID]++
	}
	if m.Label != "" {
		t.labels[m.Label]++
	}
}

// Endpoint returns the summary for one path, or nil if it was never seen.
func (t *Tracker) Endpoint(path string) *EndpointSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ep, ok := t.endpoints[path]
	if !ok {
		return nil
	}
	return t.summarize(ep)
}

// TopEndpoints returns up to limit endpoints by request count, descending.
func (t *Tracker) TopEndpoints(limit int) []*EndpointSummary {
	t.mu.RLock()
	out := make([]*EndpointSummary, 0, len(t.endpoints))
	for _, ep := range t.endpoints {
		out = append(out, t.summarize(ep))
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRequests != out[j].TotalRequests {
			return out[i].TotalRequests > out[j].TotalRequests
		}
		return out[i].Path < out[j].Path
	})
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Labels returns label counts ordered by label.
func (t *Tracker) Labels() []LabelCount {
	t.mu.RLock()
	out := make([]LabelCount, 0, len(t.labels))
	for l, n := range t.labels {
		out = append(out, LabelCount{Label: l, Count: n})
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Overview returns the overall usage summary.
func (t *Tracker) Overview() *Overview {
	total := atomic.LoadInt64(&t.totalRequests)
	errs := atomic.LoadInt64(&t.totalErrors)
	dur := atomic.LoadInt64(&t.totalDuration)

	ov := &Overview{
		TotalRequests: total,
		TotalErrors:   errs,
		TopEndpoints:  t.TopEndpoints(5),
		Labels:        t.Labels(),
	}
	if total > 0 {
		ov.ErrorRate = float64(errs) / float64(total)
		ov.AvgLatency = time.Duration(dur / total)
	}

	t.mu.RLock()
	ov.UniqueClients = len(t.clients)
	ov.UniqueEndpoints = len(t.endpoints)
	t.mu.RUnlock()
	return ov
}

// Reset clears all recorded usage.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics = t.metrics[:0]
	t.writePos = 0
	t.endpoints = make(map[string]*endpointStats)
	t.clients = make(map[string]int64)
	t.labels = make(map[string]int64)
	atomic.StoreInt64(&t.totalRequests, 0)
	atomic.StoreInt64(&t.totalErrors, 0)
	atomic.StoreInt64(&t.totalDuration, 0)
}

// summarize must be called with t.mu held.
func (t *Tracker) summarize(ep *endpointStats) *EndpointSummary {
	s := &EndpointSummary{
		Path:            ep.path,
		TotalRequests:   ep.totalRequests,
		StatusBreakdown: make(map[int]int64, len(ep.statusCounts)),
		P95Latency:      t.p95(ep.path),
	}
	if ep.totalRequests > 0 {
		s.ErrorRate = float64(ep.totalErrors) / float64(ep.totalRequests)
		s.AvgLatency = time.Duration(ep.totalDuration / ep.totalRequests)
	}
	for code, n := range ep.statusCounts {
		s.StatusBreakdown[code] = n
	}
	return s
}

// p95 computes the 95th percentile latency for path from the ring buffer.
// Must be called with t.mu held.
func (t *Tracker) p95(path string) time.Duration {
	var durations []float64
	for _, m := range t.metrics {
		if m.Path == path {
			durations = append(durations, float64(m.Duration))
		}
	}
	if len(durations) == 0 {
		return 0
	}
	sort.Float64s(durations)
	return time.Duration(stat.Quantile(0.95, stat.Empirical, durations, nil))
}
