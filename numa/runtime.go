// File: numa/runtime.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime is the top-level facade composing the hard core — arena,
// ring, syncutil, mailbox, workpool — behind one struct, the same
// orchestration role facade.HioloadWS played for the prior generation
// of this library: a simple, composable entry point instead of
// requiring callers to wire every subsystem by hand.

package numa

import (
	"log"

	"github.com/momentics/numa-runtime/advisor"
	"github.com/momentics/numa-runtime/arena"
	"github.com/momentics/numa-runtime/control"
	"github.com/momentics/numa-runtime/mailbox"
	runtimectx "github.com/momentics/numa-runtime/runtime"
	"github.com/momentics/numa-runtime/workpool"
)

// Runtime composes the runtime context, the work-stealing pool, the
// migration advisor, and the debug/config control layer.
type Runtime struct {
	cfg      *Config
	ctx      *runtimectx.Context
	pool     *workpool.Pool
	advisor  advisor.Profiler
	probes   *control.DebugProbes
	settings *control.ConfigStore
	metrics  *control.MetricsRegistry
	logger   *log.Logger
}

// New builds a Runtime from cfg (DefaultConfig() if nil), initializes
// the runtime context, and starts the work-stealing pool. pageQuery
// may be nil if the caller never uses SubmitLocal.
func New(cfg *Config, pageQuery workpool.PageQuery, prof advisor.Profiler) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := log.Default()

	ctx := runtimectx.New(cfg.MailboxCapacity)
	if err := ctx.Init(); err != nil {
		return nil, err
	}
	ctx.SetAdvisorThreshold(cfg.AdvisorThresholdM)

	if prof == nil {
		prof = advisor.Stub{}
	}
	if err := prof.Start(); err != nil {
		logger.Printf("numa: advisor start degraded: %v", err)
	}
	prof.SetThreshold(cfg.AdvisorThresholdM)

	metrics := control.NewMetricsRegistry()
	pool, err := workpool.CreateWithHooks(ctx.Topology(), ctx.AffinityOps(), pageQuery, workpool.Hooks{
		OnWorkerStart: func(node int) {
			ctx.ThreadStarted()
			metrics.Set("runtime.active_threads", ctx.ActiveThreads())
			metrics.SetNode(node, "workpool.worker_state", "running")
		},
		OnWorkerExit: func(node int) {
			ctx.ThreadExited()
			metrics.Set("runtime.active_threads", ctx.ActiveThreads())
			metrics.SetNode(node, "workpool.worker_state", "stopped")
		},
	})
	if err != nil {
		ctx.Teardown()
		return nil, err
	}

	r := &Runtime{
		cfg:      cfg,
		ctx:      ctx,
		pool:     pool,
		advisor:  prof,
		settings: control.NewConfigStore(),
		metrics:  metrics,
		logger:   logger,
	}
	r.metrics.Set("workpool.node_count", pool.NodeCount())

	if cfg.EnableDebugProbes {
		r.probes = control.NewDebugProbes()
		r.registerProbes()
	}

	r.settings.SetConfig(map[string]any{"advisor.threshold_mpki": cfg.AdvisorThresholdM})
	r.settings.OnReload(func() {
		snap := r.settings.GetSnapshot()
		if f, ok := snap["advisor.threshold_mpki"].(float64); ok {
			r.advisor.SetThreshold(f)
			r.ctx.SetAdvisorThreshold(f)
		}
	})

	return r, nil
}

func (r *Runtime) registerProbes() {
	r.probes.RegisterProbe("runtime.active_threads", func() any {
		return r.ctx.ActiveThreads()
	})
	for n := 0; n < r.pool.NodeCount(); n++ {
		node := n
		r.probes.RegisterNodeProbe(node, "workpool.queue_depth", func() any {
			return r.pool.QueueDepth(node)
		})
	}
	if withHistory, ok := r.advisor.(interface{ History() []advisor.Sample }); ok {
		r.probes.RegisterProbe("advisor.history", func() any {
			return withHistory.History()
		})
	}
}

// Pool returns the work-stealing task pool.
func (r *Runtime) Pool() *workpool.Pool { return r.pool }

// Mailboxes returns the per-node mailbox layer.
func (r *Runtime) Mailboxes() *mailbox.Layer {
	return r.ctx.Mailboxes()
}

// LaunchManaged starts fn on a new goroutine pinned to node, tracked
// by the same active_threads counter the work-stealing pool reports
// through. Use the pool for recurring work; use this for a one-off
// background job that still wants node affinity and join tracking.
func (r *Runtime) LaunchManaged(node int, fn func()) error {
	return r.ctx.LaunchManaged(node, fn)
}

// JoinAll blocks until every LaunchManaged job has returned.
func (r *Runtime) JoinAll() {
	r.ctx.JoinAll()
}

// MigrateArena forcibly relocates an arena's already-resident pages to
// targetNode, an explicit operation distinct from the advisor, which
// only ever recommends.
func (r *Runtime) MigrateArena(a *arena.Arena, targetNode int) error {
	return a.Migrate(targetNode)
}

// Advisor returns the configured migration advisor.
func (r *Runtime) Advisor() advisor.Profiler { return r.advisor }

// Settings returns the runtime-adjustable config store.
func (r *Runtime) Settings() *control.ConfigStore { return r.settings }

// DebugProbes returns the registered debug probes, or nil if disabled.
func (r *Runtime) DebugProbes() *control.DebugProbes { return r.probes }

// Metrics returns the push-based metrics registry, updated on worker
// lifecycle events.
func (r *Runtime) Metrics() *control.MetricsRegistry { return r.metrics }

// Close tears down the pool and the runtime context.
func (r *Runtime) Close() {
	r.pool.Destroy()
	r.ctx.Teardown()
}
