//go:build linux
// +build linux

// File: affinityops/affinityops_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux backend: pthread affinity masks plus libnuma's run-on-node,
// the same cgo idiom as affinity/affinity_linux.go and
// internal/concurrency/pin_linux.go in the prior generation.

package affinityops

/*
#define _GNU_SOURCE
#include <sched.h>
#include <pthread.h>
#include <numa.h>
#include <errno.h>

int go_pin_cpu(int cpu) {
	cpu_set_t set;
	CPU_ZERO(&set);
	CPU_SET(cpu, &set);
	return pthread_setaffinity_np(pthread_self(), sizeof(set), &set);
}

int go_pin_node(int node) {
	if (numa_available() == -1) {
		return -1;
	}
	numa_run_on_node(node);
	return 0;
}

int go_unpin(void) {
	cpu_set_t set;
	CPU_ZERO(&set);
	long n = sysconf(_SC_NPROCESSORS_ONLN);
	for (long i = 0; i < n; i++) {
		CPU_SET(i, &set);
	}
	return pthread_setaffinity_np(pthread_self(), sizeof(set), &set);
}

int go_current_cpu(void) {
	return sched_getcpu();
}

int go_current_node(void) {
	int cpu = sched_getcpu();
	if (cpu < 0 || numa_available() == -1) {
		return 0;
	}
	return numa_node_of_cpu(cpu);
}
*/
import "C"
import (
	"fmt"
	"runtime"
)

type linuxOps struct{}

var defaultOps Ops = linuxOps{}

func (linuxOps) PinCurrentToCPU(cpu int) error {
	runtime.LockOSThread()
	if ret := C.go_pin_cpu(C.int(cpu)); ret != 0 {
		return fmt.Errorf("affinityops: pthread_setaffinity_np failed, code %d", ret)
	}
	return nil
}

func (linuxOps) PinCurrentToNode(node int) error {
	runtime.LockOSThread()
	if ret := C.go_pin_node(C.int(node)); ret != 0 {
		return fmt.Errorf("affinityops: numa_run_on_node unavailable")
	}
	return nil
}

func (linuxOps) UnpinCurrent() error {
	if ret := C.go_unpin(); ret != 0 {
		return fmt.Errorf("affinityops: pthread_setaffinity_np reset failed, code %d", ret)
	}
	runtime.UnlockOSThread()
	return nil
}

func (linuxOps) CurrentCPU() int {
	cpu := int(C.go_current_cpu())
	if cpu < 0 {
		return 0
	}
	return cpu
}

func (linuxOps) CurrentNode() int {
	return int(C.go_current_node())
}
