// File: workpool/descriptor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package workpool

import "github.com/momentics/numa-runtime/ring"

// Func is a unit of work submitted to the pool.
type Func func(arg any)

// descriptor is allocated once at pool creation, physically on the
// node it belongs to, and recycled through homeFree for the rest of
// the pool's lifetime. A task that is stolen and executed elsewhere
// still carries its home queue with it, so the invariant "return to
// home, never to the executor's own ring" is encoded in the
// descriptor rather than derived from whichever worker runs it.
type descriptor struct {
	fn       Func
	arg      any
	homeFree *ring.Ring[*descriptor]
}
