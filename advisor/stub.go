// File: advisor/stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub is the empty, always-degraded advisor: Start always succeeds
// and Check always reports AdviceError with a nil error, the
// missing-capability outcome for hosts without hardware counters.

package advisor

// Stub is a Profiler that never recommends migration.
type Stub struct{}

func (Stub) Start() error { return nil }

func (Stub) Check() (Advice, error) {
	return AdviceError, nil
}

func (Stub) SetThreshold(mpki float64) {}
