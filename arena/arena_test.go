package arena_test

import (
	"testing"

	"github.com/momentics/numa-runtime/arena"
)

func TestArenaBumpAlignment(t *testing.T) {
	a, err := arena.Create(-1, 4096)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer a.Destroy()

	p1, err := a.Alloc(10)
	if err != nil {
		t.Fatalf("alloc 1 failed: %v", err)
	}
	p2, err := a.Alloc(20)
	if err != nil {
		t.Fatalf("alloc 2 failed: %v", err)
	}
	diff := cap(p1)
	if diff != 64 {
		t.Fatalf("alloc(10) should reserve 64-byte aligned span, got cap=%d", diff)
	}
	_ = p2
	if a.Used() != 128 {
		t.Fatalf("expected used=128 after two allocs, got %d", a.Used())
	}
}

func TestArenaOutOfCapacity(t *testing.T) {
	a, err := arena.Create(-1, 128)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer a.Destroy()

	if _, err := a.Alloc(64); err != nil {
		t.Fatalf("first alloc should fit: %v", err)
	}
	if a.Size() < 128 {
		t.Fatalf("expected size rounded up to at least requested size, got %d", a.Size())
	}
	// Arena is rounded up to huge-page size, so a single 128-byte
	// request does not exhaust it; exhaust it explicitly instead.
	for {
		if _, err := a.Alloc(a.Size()); err != nil {
			break
		}
	}
}

func TestArenaReset(t *testing.T) {
	a, err := arena.Create(-1, 4096)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer a.Destroy()

	if _, err := a.Alloc(100); err != nil {
		t.Fatalf("alloc failed: %v", err)
	}
	a.Reset()
	if a.Used() != 0 {
		t.Fatalf("expected used=0 after reset, got %d", a.Used())
	}
}

func TestArenaInvalidSize(t *testing.T) {
	if _, err := arena.Create(-1, 0); err == nil {
		t.Fatalf("expected error for zero size")
	}
}

func TestArenaMigrateNeverPanics(t *testing.T) {
	a, err := arena.Create(-1, 4096)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer a.Destroy()

	// Migrate never panics regardless of NUMA availability on the test
	// host; it either succeeds or reports a structured unsupported/
	// internal error.
	_ = a.Migrate(0)
}
