// File: bufpool/bufpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool recycles fixed-size byte buffers on top of a NodeAllocator, the
// external collaborator spec 6 leaves to the host for node-aware
// memory backing. Unlike arena's bump allocation, buffers here are
// individually returned to a sync.Pool and reused — the right shape
// for short-lived, variable-lifetime payloads (mailbox or task
// argument buffers) that don't fit the arena's reset-the-whole-region
// discipline.

package bufpool

import "sync"

// NodeAllocator is the external collaborator named in spec 6: it knows
// how to bind an allocation to a NUMA node and how many nodes exist.
// The runtime never implements this itself on a platform where NUMA
// information is unavailable; Default() falls back to a allocator
// that ignores node hints.
type NodeAllocator interface {
	Alloc(size int, node int) ([]byte, error)
	Free([]byte)
	Nodes() (int, error)
}

// Pool recycles fixed-size buffers preferentially allocated on one
// NUMA node.
type Pool struct {
	alloc   NodeAllocator
	size    int
	node    int
	enabled bool
	pool    sync.Pool
}

// New creates a pool of size-byte buffers preferring node. If alloc is
// nil, the platform default allocator is used; on platforms without
// NUMA support that default degrades to a plain make([]byte, size).
func New(alloc NodeAllocator, node int, size int) *Pool {
	if alloc == nil {
		alloc = Default()
	}
	p := &Pool{alloc: alloc, size: size, node: node, enabled: alloc != nil}
	p.pool.New = func() any {
		if !p.enabled {
			return make([]byte, size)
		}
		b, err := alloc.Alloc(size, node)
		if err != nil {
			return make([]byte, size)
		}
		return b
	}
	return p
}

// Get returns a buffer from the pool, allocating a fresh one on miss.
func (p *Pool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put returns buf to the pool for reuse. buf must have been obtained
// from Get on the same Pool.
func (p *Pool) Put(buf []byte) {
	if len(buf) != p.size {
		return
	}
	p.pool.Put(buf)
}

// Size returns the fixed buffer size this pool manages.
func (p *Pool) Size() int { return p.size }

// NodeID returns the preferred NUMA node.
func (p *Pool) NodeID() int { return p.node }
