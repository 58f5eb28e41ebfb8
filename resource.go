package frap

import "sync"

// Recorder is implemented by an optional contention-telemetry sink
// attached to a Resource (see package telemetry). Recording is skipped
// with a nil check on the hot path, so attaching no recorder costs
// nothing, per spec.md §7's "no logging in the hot path" guidance applied
// to telemetry as well.
type Recorder interface {
	RecordWait(waitNanos int64)
	RecordHold(holdNanos int64)
}

// Resource is a FRAP resource descriptor, per spec.md §3 (C1). Storage is
// provided by the caller; use InitResource before first use.
//
// The short spinlock described in spec.md (guarding owner and fifo) is
// implemented here as a plain sync.Mutex: Go's scheduler has no interrupt
// context to mask, and the critical sections it guards are always short
// and non-blocking, exactly what sync.Mutex is for.
type Resource struct {
	// ID is an integer identity for debugging, assigned at InitResource.
	ID uint32

	// IsGlobal selects the protocol variant: true for the FRAP global
	// spin protocol (lock.go), false for the local PCP variant
	// (localpcp.go).
	IsGlobal bool

	// Ceiling is the priority ceiling for local PCP resources. Per the
	// Open Question noted in spec.md §9 and resolved in SPEC_FULL.md,
	// LocalLock overwrites this on every call unless ceilingPinned was
	// set by InitResourceWithCeiling, in which case mismatched calls are
	// rejected with ErrCeilingMismatch.
	Ceiling Priority

	ceilingPinned bool

	mu    sync.Mutex // short_lock: guards owner and fifo
	owner Task
	fifo  fifo

	// Recorder, if non-nil, receives wait/hold samples for every
	// successful Lock/Unlock pair. LocalLock/LocalUnlock record nothing.
	// See SPEC_FULL.md's contention-telemetry addition.
	Recorder Recorder
}

// InitResource initializes r as a usable FRAP resource. It zeroes owner,
// clears the ceiling, and starts with an empty wait FIFO, per spec.md
// §4.1. Resources are created once at init and never destroyed during
// steady-state; calling InitResource on an in-use resource is a misuse
// the caller must avoid.
func InitResource(r *Resource, id uint32, isGlobal bool) error {
	if r == nil {
		return ErrNilResource
	}

	r.ID = id
	r.IsGlobal = isGlobal
	r.Ceiling = 0
	r.ceilingPinned = false
	r.owner = nil
	r.fifo = fifo{}

	return nil
}

// InitResourceWithCeiling initializes r as a local PCP resource with a
// fixed ceiling: subsequent LocalLock calls must pass the same ceiling,
// or get ErrCeilingMismatch. This is the stricter, opt-in reading of the
// "is ceiling per-call or per-resource" Open Question from spec.md §9;
// plain InitResource plus LocalLock keeps the original's literal
// per-call-overwrite behavior.
func InitResourceWithCeiling(r *Resource, id uint32, ceiling Priority) error {
	if err := InitResource(r, id, false); err != nil {
		return err
	}
	r.Ceiling = ceiling
	r.ceilingPinned = true
	return nil
}

// Owner returns the task currently holding the critical section, or nil.
func (r *Resource) Owner() Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owner
}
