package workpool_test

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/numa-runtime/workpool"
)

// fakeTopology is a minimal topology.View for deterministic tests: N
// nodes, one CPU each, distance equal to the absolute node-id delta.
type fakeTopology struct{ n int }

func (f fakeTopology) NodeCount() int      { return f.n }
func (f fakeTopology) CPUsOf(node int) []int {
	if node < 0 || node >= f.n {
		return nil
	}
	return []int{node}
}
func (f fakeTopology) Distance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d
}

// goroutineLocalOps records the node a worker goroutine pinned itself
// to, keyed by goroutine id, so CurrentNode reports the pinning
// worker's own node regardless of real OS thread placement. This lets
// unit tests observe routing/locality without root privileges or
// hardware NUMA support.
type goroutineLocalOps struct {
	mu    sync.Mutex
	nodes map[uint64]int
}

func newGoroutineLocalOps() *goroutineLocalOps {
	return &goroutineLocalOps{nodes: make(map[uint64]int)}
}

func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	i := bytes.IndexByte(buf, ' ')
	id, _ := strconv.ParseUint(string(buf[:i]), 10, 64)
	return id
}

func (g *goroutineLocalOps) PinCurrentToNode(node int) error {
	g.mu.Lock()
	g.nodes[goroutineID()] = node
	g.mu.Unlock()
	return nil
}
func (g *goroutineLocalOps) PinCurrentToCPU(cpu int) error { return nil }
func (g *goroutineLocalOps) UnpinCurrent() error           { return nil }
func (g *goroutineLocalOps) CurrentCPU() int               { return 0 }
func (g *goroutineLocalOps) CurrentNode() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nodes[goroutineID()]
}

func TestPoolRouting(t *testing.T) {
	ops := newGoroutineLocalOps()
	p, err := workpool.Create(fakeTopology{n: 2}, ops, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer p.Destroy()

	result := make(chan int, 1)
	err = p.SubmitToNode(1, func(arg any) {
		result <- ops.CurrentNode()
	}, nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case node := <-result:
		if node != 1 {
			t.Fatalf("task executed on node %d, want 1", node)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("task never executed")
	}
}

type fakePageQuery struct{ node int }

func (f fakePageQuery) PhysicalNodeOf(ptr uintptr) (int, bool) { return f.node, true }

func TestPoolLocality(t *testing.T) {
	ops := newGoroutineLocalOps()
	p, err := workpool.Create(fakeTopology{n: 2}, ops, fakePageQuery{node: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer p.Destroy()

	result := make(chan int, 1)
	if err := p.SubmitLocal(func(arg any) {
		result <- ops.CurrentNode()
	}, 0xdead); err != nil {
		t.Fatalf("submit local failed: %v", err)
	}

	select {
	case node := <-result:
		if node != 1 {
			t.Fatalf("task executed on node %d, want 1", node)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("task never executed")
	}
}

func TestPoolConservation(t *testing.T) {
	ops := newGoroutineLocalOps()
	p, err := workpool.Create(fakeTopology{n: 4}, ops, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	const total = 5000
	var executed int64
	var wg sync.WaitGroup
	wg.Add(total)

	for i := 0; i < total; i++ {
		node := i % 4
		for {
			err := p.SubmitToNode(node, func(arg any) {
				atomic.AddInt64(&executed, 1)
				wg.Done()
			}, nil)
			if err == nil {
				break
			}
			time.Sleep(time.Microsecond)
		}
	}

	wg.Wait()
	p.Destroy()

	if executed != total {
		t.Fatalf("executed = %d, want %d", executed, total)
	}
}

func TestPoolOutOfRangeClampsToNodeZero(t *testing.T) {
	ops := newGoroutineLocalOps()
	p, err := workpool.Create(fakeTopology{n: 2}, ops, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer p.Destroy()

	result := make(chan int, 1)
	if err := p.SubmitToNode(99, func(arg any) {
		result <- ops.CurrentNode()
	}, nil); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case node := <-result:
		if node != 0 {
			t.Fatalf("out-of-range target executed on node %d, want 0", node)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("task never executed")
	}
}
