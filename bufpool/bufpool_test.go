// File: bufpool/bufpool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bufpool_test

import (
	"testing"

	"github.com/momentics/numa-runtime/bufpool"
)

type fakeAllocator struct {
	allocs int
	frees  int
}

func (f *fakeAllocator) Alloc(size, node int) ([]byte, error) {
	f.allocs++
	return make([]byte, size), nil
}
func (f *fakeAllocator) Free(b []byte) { f.frees++ }
func (f *fakeAllocator) Nodes() (int, error) { return 4, nil }

func TestPoolReusesBuffers(t *testing.T) {
	alloc := &fakeAllocator{}
	p := bufpool.New(alloc, 1, 256)

	b1 := p.Get()
	if len(b1) != 256 {
		t.Fatalf("unexpected buffer size: %d", len(b1))
	}
	p.Put(b1)
	b2 := p.Get()
	if len(b2) != 256 {
		t.Fatalf("unexpected buffer size on reuse: %d", len(b2))
	}
	if alloc.allocs != 1 {
		t.Fatalf("expected exactly one backing allocation, got %d", alloc.allocs)
	}
}

func TestPoolRejectsWrongSizedReturn(t *testing.T) {
	p := bufpool.New(&fakeAllocator{}, 0, 128)
	p.Put(make([]byte, 64))
	b := p.Get()
	if len(b) != 128 {
		t.Fatalf("expected fresh 128-byte buffer, got %d", len(b))
	}
}

func TestDefaultAllocatorReportsNodes(t *testing.T) {
	n, err := bufpool.Default().Nodes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n < 1 {
		t.Fatalf("expected at least one node, got %d", n)
	}
}
