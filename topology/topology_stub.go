//go:build !linux
// +build !linux

// File: topology/topology_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux platforms have no sysfs NUMA tree; Resolve always falls
// back to SingleNode.

package topology

func resolvePlatform() View {
	return nil
}
