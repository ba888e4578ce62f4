// File: advisor/bits.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package advisor

import (
	"errors"
	"math"
)

var (
	errNoSampler  = errors.New("advisor: no sampler configured")
	errNotStarted = errors.New("advisor: Check called before Start")
)

func float64bits(f float64) uint64   { return math.Float64bits(f) }
func float64frombits(b uint64) float64 { return math.Float64frombits(b) }
