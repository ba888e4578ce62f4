// File: workpool/backoff.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// backoff implements the spin -> yield -> sleep escalation spec 4.6
// requires both for submission against a full task queue and for an
// idle worker that found nothing to run or steal.

package workpool

import (
	"runtime"
	"time"
)

const (
	spinThreshold  = 4000
	yieldThreshold = 8000
)

type backoff struct {
	iters int
}

// wait advances the backoff state by one step.
func (b *backoff) wait() {
	b.iters++
	switch {
	case b.iters < spinThreshold:
		for i := 0; i < 32; i++ {
			runtime.Gosched()
		}
	case b.iters < yieldThreshold:
		runtime.Gosched()
	default:
		time.Sleep(time.Millisecond)
	}
}

// reset is called on any successful dequeue.
func (b *backoff) reset() {
	b.iters = 0
}
