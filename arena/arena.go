// File: arena/arena.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Arena is a node-bound, huge-page-backed bump allocator. It owns a
// single contiguous virtual region for its lifetime; allocations are
// never freed individually, only reclaimed wholesale by Reset or
// Destroy. Alloc is explicitly not thread-safe — concurrent callers
// must serialize externally, the same discipline the prior generation
// of this library applied to its per-node buffer pools.

package arena

import (
	"fmt"

	"github.com/momentics/numa-runtime/api"
)

// DefaultHugePageSize is used when the host cannot report its own
// huge-page size (spec: "default 2 MiB if unknown").
const DefaultHugePageSize = 2 << 20

const cacheLine = 64

// Arena is a contiguous, node-bound virtual region with a monotonic
// bump offset.
type Arena struct {
	base   []byte
	used   int
	nodeID int
	huge   bool
	unmap  func([]byte) error
}

// Create reserves size bytes (rounded up to the huge-page size) bound
// to nodeID. It prefers huge-page backing; if that is refused the
// region stays on base pages and Huge reports false, with no other
// change in behavior. On Linux the region is then bound to nodeID with
// a single bind whose outcome is not checked; no preferred (soft) bind
// is attempted. Only an outright reservation failure returns an error.
func Create(nodeID int, size int) (*Arena, error) {
	if size <= 0 {
		return nil, api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument, "arena: size must be positive").
			WithContext("size", size)
	}
	hp := hugePageSize()
	aligned := alignUp(size, hp)
	return createPlatform(nodeID, aligned, hp)
}

func alignUp(n, align int) int {
	if align <= 0 {
		align = DefaultHugePageSize
	}
	return (n + align - 1) / align * align
}

// Alloc reserves n bytes aligned to a cache line and returns a slice
// into the arena's backing region. It returns an error if the arena
// has insufficient remaining capacity. Not safe for concurrent use.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument, "arena: alloc size must be positive").
			WithContext("n", n)
	}
	aligned := alignUp(n, cacheLine)
	if a.used+aligned > len(a.base) {
		return nil, api.Wrap(api.ErrCodeResourceExhausted, api.ErrResourceExhausted,
			fmt.Sprintf("arena: out of capacity: used=%d want=%d size=%d", a.used, aligned, len(a.base)))
	}
	start := a.used
	a.used += aligned
	return a.base[start : start+n : start+aligned], nil
}

// Reset sets the bump offset back to zero. Every pointer previously
// handed out by Alloc is invalidated immediately.
func (a *Arena) Reset() {
	a.used = 0
}

// Destroy returns the backing region to the OS. The arena must not be
// used afterward.
func (a *Arena) Destroy() error {
	if a.unmap == nil {
		return nil
	}
	err := a.unmap(a.base)
	a.base = nil
	a.unmap = nil
	return err
}

// Used returns the current bump offset.
func (a *Arena) Used() int { return a.used }

// Size returns the aligned capacity of the region.
func (a *Arena) Size() int { return len(a.base) }

// NodeID returns the NUMA node this arena is bound to.
func (a *Arena) NodeID() int { return a.nodeID }

// Huge reports whether the region is backed by huge pages.
func (a *Arena) Huge() bool { return a.huge }

// Migrate forcibly relocates the arena's already-resident physical
// pages to targetNode. This is distinct from Create's node bind, which
// only steers where future allocations in the region land: Migrate
// moves memory that is already backing live data, an explicit,
// caller-invoked operation the advisor (spec 9) never performs itself
// — the advisor only recommends, it does not migrate. On platforms
// without a wired NUMA backend this returns an unsupported error.
func (a *Arena) Migrate(targetNode int) error {
	return migratePlatform(a, targetNode)
}
