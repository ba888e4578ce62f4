// File: syncutil/mcs.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// MCSLock is a queue lock in which each waiter spins on a field in its
// own cache line rather than on a shared tail, eliminating the
// tail-line bouncing a plain spinlock causes under cross-socket
// contention. Fairness is strictly FIFO: whoever links onto the tail
// first is released first.

package syncutil

import (
	"runtime"
	"sync/atomic"
)

// MCSNode is a waiter's queue entry. The spec requires it to outlive
// the critical section it guards; callers typically keep one inline
// in a stack frame for the duration of Acquire/Release.
type MCSNode struct {
	next   atomic.Pointer[MCSNode]
	locked atomic.Bool
}

// MCSLock is the lock's shared state: just an atomic tail pointer.
type MCSLock struct {
	tail atomic.Pointer[MCSNode]
}

// Acquire links node onto the tail of the wait queue and spins on
// node.locked until ownership is transferred to it.
func (l *MCSLock) Acquire(node *MCSNode) {
	node.next.Store(nil)
	node.locked.Store(true)

	pred := l.tail.Swap(node)
	if pred == nil {
		// Queue was empty; lock is ours immediately.
		return
	}
	pred.next.Store(node)
	for node.locked.Load() {
		runtime.Gosched()
	}
}

// Release hands ownership to the successor, if one has linked in, or
// clears the tail if node was the only waiter.
func (l *MCSLock) Release(node *MCSNode) {
	if node.next.Load() == nil {
		if l.tail.CompareAndSwap(node, nil) {
			return
		}
		// A successor is mid-enqueue: spin until it becomes visible.
		for node.next.Load() == nil {
			runtime.Gosched()
		}
	}
	node.next.Load().locked.Store(false)
}
