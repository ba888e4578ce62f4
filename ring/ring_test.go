package ring_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/momentics/numa-runtime/ring"
)

func TestRingRoundTrip(t *testing.T) {
	r, err := ring.Create[int](-1, 4)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer r.Destroy()

	for _, v := range []int{0, 1, 2} {
		if !r.Push(v) {
			t.Fatalf("push(%d) unexpectedly failed", v)
		}
	}
	if r.Push(3) {
		t.Fatalf("push should fail once %d items are in flight", r.Cap()-1)
	}

	for _, want := range []int{0, 1, 2} {
		got, ok := r.Pop()
		if !ok || got != want {
			t.Fatalf("pop = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if _, ok := r.Pop(); ok {
		t.Fatalf("pop on empty ring should fail")
	}
}

func TestRingSPSCOrderPreserved(t *testing.T) {
	r, err := ring.Create[int](-1, 64)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer r.Destroy()

	const n = 100000
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !r.Push(i) {
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			var got int
			var ok bool
			for {
				got, ok = r.Pop()
				if ok {
					break
				}
			}
			if got != i {
				t.Errorf("out of order: got %d want %d", got, i)
			}
		}
	}()

	wg.Wait()
}

func TestRingMPMCConservation(t *testing.T) {
	r, err := ring.Create[int](-1, 1024)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer r.Destroy()

	const producers = 8
	const perProducer = 20000
	const total = producers * perProducer

	var produced int64
	var consumed int64
	var wg sync.WaitGroup

	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				v := base*perProducer + i
				for !r.Push(v) {
				}
				atomic.AddInt64(&produced, int64(v))
			}
		}(p)
	}

	var cwg sync.WaitGroup
	var count int64
	for c := 0; c < 4; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				if atomic.LoadInt64(&count) >= total {
					return
				}
				v, ok := r.Pop()
				if !ok {
					continue
				}
				atomic.AddInt64(&consumed, int64(v))
				if atomic.AddInt64(&count, 1) >= total {
					return
				}
			}
		}()
	}

	wg.Wait()
	cwg.Wait()

	if produced != consumed {
		t.Fatalf("payload not conserved: produced=%d consumed=%d", produced, consumed)
	}
}
