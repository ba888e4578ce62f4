// File: workpool/nodepool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package workpool

import (
	"sort"

	"github.com/momentics/numa-runtime/ring"
	"github.com/momentics/numa-runtime/topology"
)

const minCapacity = 1024

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// nodePool holds the node-local task queue, free queue, backing task
// array, worker count and steal order for one NUMA node.
type nodePool struct {
	nodeID     int
	capacity   int
	taskQueue  *ring.Ring[*descriptor]
	freeQueue  *ring.Ring[*descriptor]
	tasks      []descriptor
	stealOrder []int
	workers    int
}

func capacityFor(cpusOnNode int) int {
	c := nextPow2(cpusOnNode * 1024)
	if c < minCapacity {
		c = minCapacity
	}
	return c
}

// stealOrderFor returns the ids of every node other than self, sorted
// ascending by distance from self, ties broken by node id ascending.
func stealOrderFor(self int, topo topology.View) []int {
	n := topo.NodeCount()
	order := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != self {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		da, db := topo.Distance(self, order[a]), topo.Distance(self, order[b])
		if da != db {
			return da < db
		}
		return order[a] < order[b]
	})
	return order
}

// newNodePool allocates every node-local resource and preloads the
// free queue with every descriptor's pointer, but starts no workers:
// per spec 4.6, all node pools must be fully constructed before any
// worker thread observes its peers.
func newNodePool(nodeID int, topo topology.View, workerCount int) (*nodePool, error) {
	cpus := topo.CPUsOf(nodeID)
	cap := capacityFor(len(cpus))

	taskQueue, err := ring.Create[*descriptor](nodeID, cap)
	if err != nil {
		return nil, err
	}
	freeQueue, err := ring.Create[*descriptor](nodeID, cap)
	if err != nil {
		taskQueue.Destroy()
		return nil, err
	}

	np := &nodePool{
		nodeID:     nodeID,
		capacity:   cap,
		taskQueue:  taskQueue,
		freeQueue:  freeQueue,
		tasks:      make([]descriptor, cap-1),
		stealOrder: stealOrderFor(nodeID, topo),
		workers:    workerCount,
	}
	for i := range np.tasks {
		np.tasks[i].homeFree = freeQueue
		if !np.freeQueue.Push(&np.tasks[i]) {
			// Capacity is sized for exactly cap-1 live descriptors
			// (the ring reserves one slot by design), so this cannot
			// happen; guard anyway rather than silently dropping one.
			taskQueue.Destroy()
			freeQueue.Destroy()
			return nil, ErrCreateFailed
		}
	}
	return np, nil
}

func (np *nodePool) destroy() {
	np.taskQueue.Destroy()
	np.freeQueue.Destroy()
}
