// File: topology/topology.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// View defines the platform-neutral NUMA topology contract the runtime
// consumes. Concrete resolvers live in separate files selected at init
// time; the core never probes hardware directly.

package topology

// View reports the number of NUMA nodes, the CPU set belonging to each,
// and the pairwise distance between nodes. Implementations must be
// immutable once returned from Resolve: the core loads topology exactly
// once per successful runtime init and never re-queries it.
type View interface {
	// NodeCount returns N, the number of NUMA nodes. N is always >= 1.
	NodeCount() int

	// CPUsOf returns the CPU indices belonging to node id.
	CPUsOf(node int) []int

	// Distance returns a non-negative, symmetric, zero-on-diagonal,
	// monotone distance between nodes a and b.
	Distance(a, b int) int
}

// Resolve returns the best available View for the current host: a
// sysfs-backed multi-node view on Linux when NUMA is present, falling
// back to SingleNode otherwise.
func Resolve() View {
	if v := resolvePlatform(); v != nil {
		return v
	}
	return SingleNode()
}
