// File: topology/single_node.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// UMA fallback topology: one node owning every logical CPU, used
// whenever the host has no NUMA support or discovery fails.

package topology

import "runtime"

type singleNode struct {
	cpus []int
}

// SingleNode returns a View reporting exactly one node that owns every
// CPU known to the Go runtime.
func SingleNode() View {
	n := runtime.NumCPU()
	cpus := make([]int, n)
	for i := range cpus {
		cpus[i] = i
	}
	return &singleNode{cpus: cpus}
}

func (s *singleNode) NodeCount() int { return 1 }

func (s *singleNode) CPUsOf(node int) []int {
	if node != 0 {
		return nil
	}
	return s.cpus
}

func (s *singleNode) Distance(a, b int) int {
	return 0
}
