// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Debug probe reflector for the NUMA runtime facade. A probe is a
// named, pull-based closure: the runtime registers one per counter it
// wants introspectable (active thread count, a node's queue depth,
// the advisor's recent advice history) and DumpState evaluates all of
// them on demand, so nothing is computed unless something asks.

package control

import (
	"fmt"
	"sync"
)

// DebugProbes holds registered probe functions, keyed by name.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a process-wide debug hook, not scoped to any
// single NUMA node (e.g. "runtime.active_threads").
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// RegisterNodeProbe inserts a debug hook scoped to one NUMA node,
// keyed as "<metric>.node.<node>" so DumpState's output stays grouped
// by metric across a multi-node dump (e.g. "workpool.queue_depth.node.0",
// "workpool.queue_depth.node.1", ...).
func (dp *DebugProbes) RegisterNodeProbe(node int, metric string, fn func() any) {
	dp.RegisterProbe(NodeKey(metric, node), fn)
}

// NodeKey formats a node-qualified probe/metric key.
func NodeKey(metric string, node int) string {
	return fmt.Sprintf("%s.node.%d", metric, node)
}

// DumpState evaluates every registered probe and returns its output.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any)
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}
