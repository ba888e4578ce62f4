//go:build linux

// File: bufpool/bufpool_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux NodeAllocator backed by libnuma, the same dependency arena's
// Linux allocator uses for node-bound reservations.

package bufpool

/*
#cgo LDFLAGS: -lnuma
#include <numa.h>
#include <stdlib.h>
void* bufpool_numa_alloc(int size, int node) {
	if (numa_available() == -1 || node < 0) {
		return malloc(size);
	}
	return numa_alloc_onnode(size, node);
}
void bufpool_numa_free(void *mem, int size) {
	free(mem);
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

type linuxAllocator struct{}

// Default returns the libnuma-backed allocator on Linux.
func Default() NodeAllocator { return &linuxAllocator{} }

func (l *linuxAllocator) Alloc(size int, node int) ([]byte, error) {
	ptr := C.bufpool_numa_alloc(C.int(size), C.int(node))
	if ptr == nil {
		return nil, fmt.Errorf("bufpool: numa alloc failed")
	}
	return unsafe.Slice((*byte)(ptr), size), nil
}

func (l *linuxAllocator) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	C.bufpool_numa_free(unsafe.Pointer(&buf[0]), C.int(len(buf)))
}

func (l *linuxAllocator) Nodes() (int, error) {
	n := C.numa_max_node()
	if n < 0 {
		return 1, fmt.Errorf("bufpool: numa not available")
	}
	return int(n) + 1, nil
}
