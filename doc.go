// Package frap implements the Finite-Resource-Aware spin Protocol: a
// real-time resource-access protocol for a preemptive, priority-based,
// multi-core kernel.
//
// Contenders for a shared, coarse-grained resource spin at a statically
// chosen priority that reflects their contribution to worst-case
// blocking. A lower-priority spinner may be preempted and requeued by a
// higher-priority task arriving at the run queue. Once a task crosses
// the critical-section boundary (a successful Lock), it runs
// non-preemptively on its own core until Unlock, bounding remote
// blocking to the critical section's length.
//
// This package implements only the protocol state machine. The host
// kernel's scheduler, task storage, priority setter and IRQ/spinlock
// primitives are consumed through the Host and Task interfaces, never
// implemented here; see package frapsim for a reference implementation
// used by the demo in cmd/frapdemo. This package's own tests drive the
// protocol through a minimal in-test mock host instead.
package frap
