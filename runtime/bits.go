// File: runtime/bits.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package runtimectx

import "math"

func mathFloat64bits(f float64) uint64     { return math.Float64bits(f) }
func mathFloat64frombits(b uint64) float64 { return math.Float64frombits(b) }
