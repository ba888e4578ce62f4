// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, metrics, and debug introspection layer for the
// NUMA-aware concurrency runtime. Holds nothing performance-critical:
// the hard core (arena, ring, syncutil, mailbox, workpool) never
// imports this package, only the facade does.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads and atomic updates
//   - Runtime observers for hot-reload of adjustable values
//   - Metrics telemetry contracts
//   - State export, debug hooks, and probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
