// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Push-based metrics for the NUMA runtime facade: worker lifecycle
// events (Set("runtime.active_threads", ...),
// SetNode(node, "workpool.worker_state", ...)) push here as they
// happen, unlike control.DebugProbes' pull-based probes, which are
// only evaluated when something asks. Complementary, not redundant:
// probes suit anything cheap to recompute on demand (a queue length),
// this suits anything that's naturally an event (a thread starting).

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds mutable, push-updated metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a process-wide metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// SetNode sets or updates a metric scoped to one NUMA node, keyed with
// the same "<metric>.node.<node>" convention control.DebugProbes uses
// so a dashboard can correlate push metrics and pull probes by name.
func (mr *MetricsRegistry) SetNode(node int, metric string, value any) {
	mr.Set(NodeKey(metric, node), value)
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// Updated returns the timestamp of the most recent Set/SetNode call,
// the zero time if nothing has been recorded yet.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
