package numa_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/numa-runtime/arena"
	"github.com/momentics/numa-runtime/numa"
)

func TestRuntimeLifecycle(t *testing.T) {
	rt, err := numa.New(nil, nil, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	defer rt.Close()

	done := make(chan struct{})
	if err := rt.Pool().SubmitToNode(0, func(arg any) {
		close(done)
	}, nil); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("task never executed")
	}

	if rt.DebugProbes() == nil {
		t.Fatalf("expected debug probes enabled by default")
	}
	state := rt.DebugProbes().DumpState()
	if _, ok := state["runtime.active_threads"]; !ok {
		t.Fatalf("expected active_threads probe in dump, got %v", state)
	}
	if _, ok := state["workpool.queue_depth.node.0"]; !ok {
		t.Fatalf("expected node-qualified queue_depth probe, got %v", state)
	}
}

func TestRuntimeMetricsAreNodeQualified(t *testing.T) {
	rt, err := numa.New(nil, nil, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	defer rt.Close()

	done := make(chan struct{})
	if err := rt.Pool().SubmitToNode(0, func(arg any) { close(done) }, nil); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	<-done

	snap := rt.Metrics().GetSnapshot()
	if _, ok := snap["workpool.worker_state.node.0"]; !ok {
		t.Fatalf("expected node-qualified worker_state metric, got %v", snap)
	}
	if rt.Metrics().Updated().IsZero() {
		t.Fatalf("expected Updated() to report a non-zero timestamp")
	}
}

func TestRuntimeAdvisorAnswersAfterSettingsUpdate(t *testing.T) {
	rt, err := numa.New(nil, nil, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	defer rt.Close()

	rt.Settings().SetConfig(map[string]any{"advisor.threshold_mpki": 42.0})
	advice, err := rt.Advisor().Check()
	if err != nil {
		t.Fatalf("unexpected error from stub advisor: %v", err)
	}
	if advice.String() != "stay" && advice.String() != "migrate" && advice.String() != "error" {
		t.Fatalf("unexpected advice string: %q", advice.String())
	}
}

func TestRuntimeMetricsTrackNodeCount(t *testing.T) {
	rt, err := numa.New(nil, nil, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	defer rt.Close()

	snap := rt.Metrics().GetSnapshot()
	n, ok := snap["workpool.node_count"].(int)
	if !ok || n != rt.Pool().NodeCount() {
		t.Fatalf("expected workpool.node_count=%d in metrics, got %v", rt.Pool().NodeCount(), snap["workpool.node_count"])
	}
}

func TestRuntimeLaunchManagedJoinsAll(t *testing.T) {
	rt, err := numa.New(nil, nil, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	defer rt.Close()

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		if err := rt.LaunchManaged(0, func() { ran.Add(1) }); err != nil {
			t.Fatalf("launch failed: %v", err)
		}
	}
	rt.JoinAll()
	if ran.Load() != 5 {
		t.Fatalf("expected 5 managed jobs to run, got %d", ran.Load())
	}
}

func TestRuntimeMigrateArenaNeverPanics(t *testing.T) {
	rt, err := numa.New(nil, nil, nil)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	defer rt.Close()

	a, err := arena.Create(0, 4096)
	if err != nil {
		t.Fatalf("arena create failed: %v", err)
	}
	defer a.Destroy()

	_ = rt.MigrateArena(a, 0)
}
