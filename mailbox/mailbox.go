// File: mailbox/mailbox.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Layer delivers pointer-sized payloads across NUMA nodes on top of
// ring.Ring. One mailbox per node, its ring allocated on that node, so
// a pinned consumer always drains node-local memory.

package mailbox

import (
	"github.com/momentics/numa-runtime/affinityops"
	"github.com/momentics/numa-runtime/ring"
)

// Send outcome codes, per spec 6.
const (
	OK         = 0
	ErrInvalid = -1
	ErrFull    = -2
)

// DefaultCapacity is used when a caller does not override it; spec 9
// leaves this configurable and explicitly tells tests not to depend
// on the exact value.
const DefaultCapacity = 4096

// Layer holds one ring per node.
type Layer struct {
	rings []*ring.Ring[any]
	ops   affinityops.Ops
}

// New allocates nodeCount mailboxes, each ring created on its own node
// with the given capacity (DefaultCapacity if capacity <= 0).
func New(nodeCount int, capacity int, ops affinityops.Ops) (*Layer, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ops == nil {
		ops = affinityops.Default()
	}

	rings := make([]*ring.Ring[any], nodeCount)
	for i := 0; i < nodeCount; i++ {
		r, err := ring.Create[any](i, capacity)
		if err != nil {
			for j := 0; j < i; j++ {
				rings[j].Destroy()
			}
			return nil, err
		}
		rings[i] = r
	}
	return &Layer{rings: rings, ops: ops}, nil
}

// Send pushes payload onto the target node's mailbox ring. It never
// blocks: a full ring yields ErrFull so the caller can retry, drop, or
// redirect.
func (l *Layer) Send(targetNode int, payload any) int {
	if targetNode < 0 || targetNode >= len(l.rings) {
		return ErrInvalid
	}
	if !l.rings[targetNode].Push(payload) {
		return ErrFull
	}
	return OK
}

// ProcessLocal determines the calling thread's current node via
// AffinityOps and pops up to limit items from that node's mailbox,
// invoking handler synchronously for each. limit == 0 drains to
// empty. It returns the number processed.
//
// Callers are expected to be pinned for the duration of the call; an
// unpinned caller may observe a different node on successive calls.
func (l *Layer) ProcessLocal(handler func(payload any), limit int) int {
	node := l.ops.CurrentNode()
	if node < 0 || node >= len(l.rings) {
		return 0
	}
	r := l.rings[node]

	count := 0
	for limit == 0 || count < limit {
		payload, ok := r.Pop()
		if !ok {
			break
		}
		handler(payload)
		count++
	}
	return count
}

// Destroy releases every mailbox ring.
func (l *Layer) Destroy() {
	for _, r := range l.rings {
		r.Destroy()
	}
}
