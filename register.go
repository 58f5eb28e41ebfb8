package frap

import "fmt"

// WaiterSnapshot is a point-in-time, read-only description of a task's
// FRAP state relative to one resource. It stands in for the original's
// struct frap_waiter, which NuttX keeps around "for external use and
// debugging" even though the internal implementation no longer allocates
// waiter records (see spec.md §3's note on C3, and SPEC_FULL.md's
// supplemented-features section). Unlike the live TaskState, a
// WaiterSnapshot is a value copy: safe to inspect after the fact,
// including from frapsim's diagnostics and tests.
type WaiterSnapshot struct {
	BasePrio  Priority
	SpinPrio  Priority
	Enqueued  bool
	InCS      bool
	Cancelled bool
}

// Snapshot describes t's current FRAP state, independent of whether t is
// associated with this resource at all; callers typically combine it with
// Resource.Waiters to describe a specific queue.
func Snapshot(t Task) WaiterSnapshot {
	ts := t.State()
	return WaiterSnapshot{
		BasePrio:  ts.basePrio,
		SpinPrio:  ts.spinPrio,
		Enqueued:  ts.enqueued,
		InCS:      ts.inCS,
		Cancelled: ts.cancelled,
	}
}

// Waiters returns the tasks currently linked into r's wait FIFO, in
// arrival order, for diagnostics. It does not mutate the queue.
func (r *Resource) Waiters() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fifo.snapshot()
}

// Validate performs the init-time validation of a resource descriptor
// described in spec.md §4.1/C8: after InitResource, the resource must
// have no owner and an empty wait FIFO. Host bootstrap code should call
// this once per resource, after InitResource and before the resource is
// published to any task, to catch a resource that already has an owner or
// waiters. InitResource itself clears both, so re-initializing an in-use
// resource is not detected here.
func Validate(r *Resource) error {
	if r == nil {
		return ErrNilResource
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.owner != nil {
		return fmt.Errorf("frap: resource %d failed validation: has an owner", r.ID)
	}
	if r.fifo.peekHead() != nil {
		return fmt.Errorf("frap: resource %d failed validation: wait FIFO is not empty", r.ID)
	}
	if !r.IsGlobal && r.ceilingPinned && r.Ceiling == 0 {
		return fmt.Errorf("frap: resource %d failed validation: pinned ceiling is zero", r.ID)
	}

	return nil
}

// ValidateAll is a convenience for bootstrap code registering a fixed
// table of resources at init, per spec.md §3's "resources are created
// once at init ... by an external bootstrap". It also rejects duplicate
// IDs, which plain per-resource Validate cannot see.
func ValidateAll(resources []*Resource) error {
	seen := make(map[uint32]struct{}, len(resources))
	for _, r := range resources {
		if err := Validate(r); err != nil {
			return err
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("frap: duplicate resource id %d", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
