//go:build !linux
// +build !linux

// File: affinityops/affinityops_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback backend for platforms without a wired pinning syscall path.
// All operations succeed trivially and report node/CPU 0, matching the
// degrade-gracefully posture of affinity_stub.go in the prior generation.

package affinityops

type stubOps struct{}

var defaultOps Ops = stubOps{}

func (stubOps) PinCurrentToNode(node int) error { return nil }
func (stubOps) PinCurrentToCPU(cpu int) error   { return nil }
func (stubOps) UnpinCurrent() error             { return nil }
func (stubOps) CurrentCPU() int                 { return 0 }
func (stubOps) CurrentNode() int                { return 0 }
