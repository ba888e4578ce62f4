// File: numa/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Config exposes every tunable of the runtime in one flat struct,
// mirroring facade.Config/DefaultConfig from the prior generation of
// this library.

package numa

// Config holds every configurable parameter of the runtime.
type Config struct {
	MailboxCapacity   int
	AdvisorThresholdM float64 // initial MPKI threshold
	EnableDebugProbes bool
}

// DefaultConfig provides a baseline configuration. Callers may modify
// the returned value before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		MailboxCapacity:   4096,
		AdvisorThresholdM: 20.0,
		EnableDebugProbes: true,
	}
}
