// File: runtime/context.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Context is the process-wide runtime state spec 3/4.7 describes:
// resolved topology, one mailbox per node, the advisor's configured
// threshold, and an idempotent init/teardown gate: an atomic state
// word checked before and again after taking a mutex (double-checked
// locking), with topology load done while the mutex is held.

package runtimectx

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/numa-runtime/affinityops"
	"github.com/momentics/numa-runtime/mailbox"
	"github.com/momentics/numa-runtime/topology"
)

const (
	stateUninitialized uint32 = iota
	stateInitializing
	stateInitialized
)

// Context is the process-wide runtime object. Create one with New and
// call Init before using it; Init is safe to call concurrently and
// idempotent once it has succeeded.
type Context struct {
	mu            sync.Mutex
	state         atomic.Uint32
	topo          topology.View
	mailboxes     *mailbox.Layer
	ops           affinityops.Ops
	advisorMpki   atomic.Uint64 // math.Float64bits
	activeThreads atomic.Int64

	mailboxCapacity int
}

// New constructs an uninitialized Context. mailboxCapacity <= 0 uses
// mailbox.DefaultCapacity.
func New(mailboxCapacity int) *Context {
	return &Context{mailboxCapacity: mailboxCapacity}
}

// Init resolves topology and allocates one mailbox per node. It is
// idempotent: a successful prior Init is a no-op; a failed Init
// leaves the context uninitialized so a later call can retry.
// Concurrent callers are serialized by an internal mutex, but only one
// of them performs the actual work per spec 4.7 and 9.
func (c *Context) Init() error {
	if c.state.Load() == stateInitialized {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Load() == stateInitialized {
		return nil
	}

	c.state.Store(stateInitializing)

	topo := topology.Resolve()
	ops := affinityops.Default()

	mb, err := mailbox.New(topo.NodeCount(), c.mailboxCapacity, ops)
	if err != nil {
		c.state.Store(stateUninitialized)
		return fmt.Errorf("runtime: init failed: %w", err)
	}

	c.topo = topo
	c.ops = ops
	c.mailboxes = mb
	c.state.Store(stateInitialized)
	return nil
}

// Teardown tears down mailboxes first, then releases topology. It is
// safe to call on an uninitialized or already-torn-down context.
func (c *Context) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Load() != stateInitialized {
		return
	}
	if c.mailboxes != nil {
		c.mailboxes.Destroy()
		c.mailboxes = nil
	}
	c.topo = nil
	c.state.Store(stateUninitialized)
}

// Initialized reports whether Init has completed successfully and
// Teardown has not yet run.
func (c *Context) Initialized() bool {
	return c.state.Load() == stateInitialized
}

// Topology returns the resolved topology view, or nil before Init.
func (c *Context) Topology() topology.View { return c.topo }

// AffinityOps returns the affinity backend selected at Init, or nil
// before Init.
func (c *Context) AffinityOps() affinityops.Ops { return c.ops }

// Mailboxes returns the per-node mailbox layer, or nil before Init.
func (c *Context) Mailboxes() *mailbox.Layer { return c.mailboxes }

// SetAdvisorThreshold configures the advisor's MPKI threshold.
func (c *Context) SetAdvisorThreshold(mpki float64) {
	c.advisorMpki.Store(mathFloat64bits(mpki))
}

// AdvisorThreshold returns the currently configured MPKI threshold.
func (c *Context) AdvisorThreshold() float64 {
	return mathFloat64frombits(c.advisorMpki.Load())
}

// ThreadStarted/ThreadExited maintain the advisory active_threads
// counter; callers (typically a workpool.Pool launched alongside this
// context) report worker lifecycle through these. A stale read only
// delays or hastens diagnostics, never correctness, per spec 5's
// shared-resource discipline table.
func (c *Context) ThreadStarted() { c.activeThreads.Add(1) }
func (c *Context) ThreadExited()  { c.activeThreads.Add(-1) }

// ActiveThreads returns the advisory count of live worker threads.
func (c *Context) ActiveThreads() int64 { return c.activeThreads.Load() }

// LaunchManaged starts fn on a new goroutine pinned to node, tracked
// by the same active_threads counter workpool workers report through.
// Unlike workpool's task pool, a managed launch is fire-and-forget: it
// has no queue, no stealing, and no descriptor recycling — it exists
// for the rare one-off background job that still wants node affinity
// and to be counted toward ActiveThreads/JoinAll.
func (c *Context) LaunchManaged(node int, fn func()) error {
	if c.ops == nil {
		return fmt.Errorf("runtime: context not initialized")
	}
	c.ThreadStarted()
	go func() {
		defer c.ThreadExited()
		if err := c.ops.PinCurrentToNode(node); err == nil {
			defer c.ops.UnpinCurrent()
		}
		fn()
	}()
	return nil
}

// JoinAll blocks until every LaunchManaged/workpool-reported thread
// has exited. It spin-waits on the active_threads counter rather than
// a condition variable or WaitGroup, matching the original's posture
// of a simple, allocation-free join barrier.
func (c *Context) JoinAll() {
	for c.ActiveThreads() > 0 {
		time.Sleep(time.Millisecond)
	}
}
