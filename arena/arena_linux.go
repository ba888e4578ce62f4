//go:build linux
// +build linux

// File: arena/arena_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux backing: an anonymous private mmap region, MADV_HUGEPAGE as a
// best-effort huge-page hint, and libnuma's numa_tonode_memory to bind
// the region to its node (the bind's outcome is not checked and no
// soft (preferred) bind is attempted), following the
// mmap/mbind idiom used by this codebase's acceleration layer while
// keeping the cgo/libnuma style the prior generation used for NUMA
// allocation (pool/numa_linux.go).

package arena

/*
#cgo LDFLAGS: -lnuma
#include <numa.h>
#include <numaif.h>
#include <stdlib.h>

static int go_numa_available(void) {
	return numa_available();
}

// strict bind: require the pages to live on node, fail hard otherwise
// is not exposed portably, so we use numa_tonode_memory which issues
// mbind(MPOL_BIND) under the hood.
static void go_bind_strict(void *start, unsigned long size, int node) {
	numa_tonode_memory(start, size, node);
}

// go_bind_preferred issues the same numa_tonode_memory bind as
// go_bind_strict; createPlatform does not call it.
static void go_bind_preferred(void *start, unsigned long size, int node) {
	numa_tonode_memory(start, size, node);
}

// go_migrate_move forcibly relocates already-resident pages to node,
// unlike numa_tonode_memory above which only steers future faults.
// MPOL_MF_MOVE asks the kernel to move mapped pages now; MPOL_MF_STRICT
// fails the call instead of silently leaving pages behind.
static int go_migrate_move(void *start, unsigned long size, int node) {
	struct bitmask *mask = numa_allocate_nodemask();
	numa_bitmask_setbit(mask, node);
	int ret = mbind(start, size, MPOL_BIND, mask->maskp, mask->size + 1,
	                 MPOL_MF_MOVE | MPOL_MF_STRICT);
	numa_free_nodemask(mask);
	return ret;
}
*/
import "C"

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/numa-runtime/api"
)

func hugePageSize() int {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return DefaultHugePageSize
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "Hugepagesize:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		kb, err := strconv.Atoi(fields[1])
		if err != nil || kb <= 0 {
			continue
		}
		return kb * 1024
	}
	return DefaultHugePageSize
}

func createPlatform(nodeID int, size int, hugePageSz int) (*Arena, error) {
	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, api.Wrap(api.ErrCodeResourceExhausted, err, fmt.Sprintf("arena: mmap failed: %v", err))
	}

	huge := true
	if err := unix.Madvise(region, unix.MADV_HUGEPAGE); err != nil {
		huge = false
	}

	if C.go_numa_available() >= 0 && nodeID >= 0 {
		ptr := unsafe.Pointer(&region[0])
		C.go_bind_strict(ptr, C.ulong(size), C.int(nodeID))
	}

	return &Arena{
		base:   region,
		nodeID: nodeID,
		huge:   huge,
		unmap:  unix.Munmap,
	}, nil
}

// migrate forces the arena's already-resident pages onto
// targetNode via mbind(MPOL_MF_MOVE), grounded on nkit_memory_migrate.
// The mmap-backed base region is always page-aligned, so unlike the
// original (which must align an arbitrary caller pointer down and its
// size up) this only needs to hand the whole region straight to
// mbind.
func (a *Arena) migrate(targetNode int) error {
	if len(a.base) == 0 {
		return api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument, "arena: cannot migrate an empty arena")
	}
	if C.go_numa_available() < 0 || targetNode < 0 {
		return api.Wrap(api.ErrCodeNotSupported, api.ErrNotSupported, "arena: numa unavailable for migration")
	}
	ret := C.go_migrate_move(unsafe.Pointer(&a.base[0]), C.ulong(len(a.base)), C.int(targetNode))
	if ret != 0 {
		return api.Wrap(api.ErrCodeInternal, fmt.Errorf("mbind returned %d", int(ret)), "arena: page migration failed")
	}
	a.nodeID = targetNode
	return nil
}

func migratePlatform(a *Arena, targetNode int) error {
	return a.migrate(targetNode)
}
