package observability

import (
	"strconv"
	"sync"
	"time"
)

type routeStats struct {
	Count         int64
	TotalDuration time.Duration
}

// Metrics keeps in-process request and error counters keyed by
// route, method, and outcome. All methods are nil-receiver safe so
// instrumented paths work without a metrics sink in tests.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*routeStats
	errors   map[string]int64
}

// NewMetrics returns an empty counter set.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*routeStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a completed request and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &routeStats{}
		m.requests[key] = stats
	}
	stats.Count++
	stats.TotalDuration += duration
}

// RecordError counts a request that resolved to a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[path+"|"+method+"|"+code]++
}

// RequestCount returns the total requests recorded across all routes.
func (m *Metrics) RequestCount() int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, stats := range m.requests {
		total += stats.Count
	}
	return total
}

// ErrorCount returns the total errors recorded across all routes.
func (m *Metrics) ErrorCount() int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, n := range m.errors {
		total += n
	}
	return total
}
