// File: workpool/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool is the node-partitioned work-stealing task pool: spec 4.6, the
// largest single component of the runtime. Each node owns a task
// queue, a free queue, and a backing array of descriptors allocated
// once at creation; workers pinned to a node drain their own queue
// first and fall back to distance-ordered stealing from peers.

package workpool

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/numa-runtime/affinityops"
	"github.com/momentics/numa-runtime/topology"
)

// PageQuery resolves the NUMA node backing a physical address, the
// external collaborator spec 6 names for SubmitLocal's routing
// decision.
type PageQuery interface {
	// PhysicalNodeOf reports the node owning the page containing ptr,
	// or ok=false if unknown.
	PhysicalNodeOf(ptr uintptr) (node int, ok bool)
}

// Pool is the top-level work-stealing pool spanning every node.
type Pool struct {
	nodePools []*nodePool
	topo      topology.View
	ops       affinityops.Ops
	pageQuery PageQuery

	stop    atomic.Bool
	started int
	wg      sync.WaitGroup

	onWorkerStart func(node int)
	onWorkerExit  func(node int)
}

// Hooks lets a caller (typically a runtime.Context) observe worker
// lifecycle, e.g. to maintain an advisory active-thread counter or a
// per-node metric. Set before calling Create's goroutines start, i.e.
// via CreateWithHooks.
type Hooks struct {
	OnWorkerStart func(node int)
	OnWorkerExit  func(node int)
}

// Create constructs and fully populates every node pool before
// starting a single worker, then publishes the pool and launches
// workers. On partial failure it tears down whatever was already
// allocated and returns (nil, err); it never joins workers that were
// never started.
func Create(topo topology.View, ops affinityops.Ops, pageQuery PageQuery) (*Pool, error) {
	return CreateWithHooks(topo, ops, pageQuery, Hooks{})
}

// CreateWithHooks is Create plus worker-lifecycle observation hooks.
func CreateWithHooks(topo topology.View, ops affinityops.Ops, pageQuery PageQuery, hooks Hooks) (*Pool, error) {
	if ops == nil {
		ops = affinityops.Default()
	}
	n := topo.NodeCount()
	if n <= 0 {
		return nil, ErrCreateFailed
	}

	totalCPUs := 0
	for i := 0; i < n; i++ {
		totalCPUs += len(topo.CPUsOf(i))
	}
	if totalCPUs == 0 {
		totalCPUs = n
	}
	workersPerNode := (totalCPUs + n - 1) / n
	if workersPerNode < 1 {
		workersPerNode = 1
	}

	p := &Pool{
		nodePools:     make([]*nodePool, n),
		topo:          topo,
		ops:           ops,
		pageQuery:     pageQuery,
		onWorkerStart: hooks.OnWorkerStart,
		onWorkerExit:  hooks.OnWorkerExit,
	}

	for i := 0; i < n; i++ {
		np, err := newNodePool(i, topo, workersPerNode)
		if err != nil {
			for j := 0; j < i; j++ {
				p.nodePools[j].destroy()
			}
			return nil, err
		}
		p.nodePools[i] = np
	}

	// Full construction phase is complete and visible at this point;
	// only now do workers start observing the pool.
	for i := 0; i < n; i++ {
		for w := 0; w < p.nodePools[i].workers; w++ {
			p.wg.Add(1)
			p.started++
			go p.runWorker(i)
		}
	}

	return p, nil
}

// NodeCount returns the number of node pools in this Pool.
func (p *Pool) NodeCount() int { return len(p.nodePools) }

// QueueDepth reports an instantaneous, advisory estimate of tasks
// in flight on node i's task queue. Intended for debug probes, not
// for scheduling decisions.
func (p *Pool) QueueDepth(i int) int {
	if i < 0 || i >= len(p.nodePools) {
		return 0
	}
	return p.nodePools[i].taskQueue.Len()
}

// clampNode maps an out-of-range target to node 0, per spec 4.6 step 1.
func (p *Pool) clampNode(i int) int {
	if i < 0 || i >= len(p.nodePools) {
		return 0
	}
	return i
}

// SubmitToNode submits fn/arg to node i's task queue. It pops one
// descriptor from that node's free queue first; if none is available
// it returns ErrBusy immediately (intentional backpressure) rather
// than retrying internally.
func (p *Pool) SubmitToNode(i int, fn Func, arg any) error {
	i = p.clampNode(i)
	np := p.nodePools[i]

	d, ok := np.freeQueue.Pop()
	if !ok {
		return ErrBusy
	}
	d.fn = fn
	d.arg = arg

	var b backoff
	for !np.taskQueue.Push(d) {
		b.wait()
	}
	return nil
}

// SubmitLocal queries ptr's physical node and submits there; if the
// node is unknown it submits to node 0, per spec 9's recorded
// decision.
func (p *Pool) SubmitLocal(fn Func, ptr uintptr) error {
	node := 0
	if p.pageQuery != nil {
		if n, ok := p.pageQuery.PhysicalNodeOf(ptr); ok {
			node = n
		}
	}
	return p.SubmitToNode(node, fn, ptr)
}

// Destroy sets the stop flag, joins every worker that was actually
// started, and frees every node pool's rings and arrays.
func (p *Pool) Destroy() {
	p.stop.Store(true)
	p.wg.Wait()
	for _, np := range p.nodePools {
		np.destroy()
	}
}

func (p *Pool) runWorker(nodeID int) {
	defer p.wg.Done()
	if p.onWorkerStart != nil {
		p.onWorkerStart(nodeID)
	}
	if p.onWorkerExit != nil {
		defer p.onWorkerExit(nodeID)
	}
	_ = p.ops.PinCurrentToNode(nodeID)
	if cpus := p.topo.CPUsOf(nodeID); len(cpus) > 0 {
		_ = p.ops.PinCurrentToCPU(cpus[0])
	}

	np := p.nodePools[nodeID]
	var b backoff

	for !p.stop.Load() {
		if d, ok := np.taskQueue.Pop(); ok {
			b.reset()
			d.fn(d.arg)
			p.returnDescriptor(d)
			continue
		}

		if p.stealOnce(np) {
			b.reset()
			continue
		}

		b.wait()
	}
}

// stealOnce walks np's steal order and tries to pop exactly one task
// from each peer's task queue in distance order, executing the first
// one found and returning its descriptor to its own home free queue.
func (p *Pool) stealOnce(np *nodePool) bool {
	for _, peerID := range np.stealOrder {
		peer := p.nodePools[peerID]
		d, ok := peer.taskQueue.Pop()
		if !ok {
			continue
		}
		d.fn(d.arg)
		p.returnDescriptor(d)
		return true
	}
	return false
}

// returnDescriptor spins with backoff if the home free queue is
// momentarily full; it cannot stay full forever because the free
// queue itself capped the number of in-flight descriptors.
func (p *Pool) returnDescriptor(d *descriptor) {
	var b backoff
	for !d.homeFree.Push(d) {
		b.wait()
	}
}
