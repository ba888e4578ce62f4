//go:build !linux
// +build !linux

// File: arena/arena_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback backing for platforms with no wired huge-page/NUMA bind
// path: a plain heap slice, huge=false, node binding ignored. The
// arena still behaves correctly as a bump allocator, just without the
// locality guarantee, matching the degrade-gracefully posture of
// pool/numa_stub.go in the prior generation.

package arena

import "github.com/momentics/numa-runtime/api"

func hugePageSize() int {
	return DefaultHugePageSize
}

func createPlatform(nodeID int, size int, hugePageSz int) (*Arena, error) {
	return &Arena{
		base:   make([]byte, size),
		nodeID: nodeID,
		huge:   false,
		unmap:  func([]byte) error { return nil },
	}, nil
}

func migratePlatform(a *Arena, targetNode int) error {
	return api.Wrap(api.ErrCodeNotSupported, api.ErrNotSupported, "arena: page migration requires Linux/libnuma")
}
