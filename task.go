package frap

import (
	"sync/atomic"
	"time"
)

// TaskState holds the per-task FRAP protocol fields, per spec.md §3 (C3).
// Hosts embed TaskState directly in their task-control-block type,
// mirroring how NuttX embeds the frap_* fields in struct tcb_s, and
// return a pointer to it from Task.State.
//
// The zero value is IDLE (spec.md §4.7) and ready to use; no constructor
// is required.
//
// Concurrency note (spec.md §5): the scheduler hook (OnPreempt) inspects
// and mutates another task's state from the calling goroutine, not the
// inspected task's own goroutine — the reference host (frapsim) has no
// way to actually freeze a running goroutine the way a real kernel
// freezes a preempted task. waitingRes is therefore published/cleared
// with an atomic pointer, so OnPreempt can safely discover which
// Resource's short lock makes the rest of the handshake (enqueued, inCS,
// cancelled) observable; once that Resource is known, every read or
// write of those three fields happens under its short lock, on both the
// task's own side (lock.go) and the hook's side (hook.go).
type TaskState struct {
	// waitingRes is the resource this task is waiting on or owns, or nil.
	// Set once by Lock before the task is published to any wait FIFO, and
	// cleared by Unlock after the task is no longer owner or enqueued.
	waitingRes atomic.Pointer[Resource]

	// node is this task's intrusive linkage into a Resource's wait FIFO.
	// Mutated only while the owning Resource's short lock is held.
	node struct {
		prev, next Task
	}

	// basePrio is the scheduling priority snapshotted on entry to Lock.
	// Fully written before waitingRes is published, so readers that
	// observe a non-nil waitingRes also observe the correct basePrio.
	basePrio Priority

	// spinPrio is the elevated priority held while contending, read once
	// from the spin-priority register (see spinprio.go) at admission.
	spinPrio Priority

	// savedPrio/hasSavedPrio snapshot the priority to restore on
	// LocalUnlock. A separate boolean replaces the original's
	// "saved_prio == 0 means unset" convention, which spec.md §9 flags as
	// conflating a valid priority of zero with "no snapshot".
	savedPrio    Priority
	hasSavedPrio bool

	// heldSince is the timestamp a successful Lock granted the critical
	// section, used by Unlock to compute the hold-duration telemetry
	// sample. Only meaningful while inCS is true.
	heldSince time.Time

	// inCS is true between a successful non-preemptive entry and the
	// matching exit. Per invariant I7, inCS implies !enqueued. Guarded by
	// waitingRes's short lock.
	inCS bool

	// enqueued is true iff node is currently linked into some fifo.
	// Invariant I6: enqueued == (node is linked into some fifo). Guarded
	// by waitingRes's short lock.
	enqueued bool

	// cancelled is set by OnPreempt when this task is ejected from a wait
	// FIFO by a higher-priority arrival. Per invariant I9, only the task
	// itself observes and clears it. Guarded by waitingRes's short lock.
	cancelled bool

	// requestedSpinPrio is the spin-priority register (C7): written by
	// SetSpinPrio ahead of a Lock call, consumed exactly once at the start
	// of that call.
	requestedSpinPrio Priority
}

// setWaitingRes publishes r as the resource this task is contending for,
// or clears it with a nil r. See the concurrency note above: this is the
// synchronization point OnPreempt relies on to discover r before it can
// safely touch enqueued/inCS/cancelled.
func (t *TaskState) setWaitingRes(r *Resource) { t.waitingRes.Store(r) }

// getWaitingRes reads the resource this task is currently waiting on or
// owns, or nil if neither. Safe to call from any goroutine.
func (t *TaskState) getWaitingRes() *Resource { return t.waitingRes.Load() }

// Enqueued reports whether this task is currently linked into a wait FIFO.
func (t *TaskState) Enqueued() bool { return t.enqueued }

// InCS reports whether this task currently owns a critical section.
func (t *TaskState) InCS() bool { return t.inCS }

// Cancelled reports whether OnPreempt ejected this task from a wait FIFO
// since its last Lock call observed and cleared the flag.
func (t *TaskState) Cancelled() bool { return t.cancelled }

// WaitingResource returns the global resource this task is currently
// waiting on or owns via Lock, or nil if neither. LocalLock does not set
// it, so a task holding a local resource reports nil.
func (t *TaskState) WaitingResource() *Resource { return t.getWaitingRes() }
