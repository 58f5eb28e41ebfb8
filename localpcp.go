package frap

// LocalLock implements the local Priority Ceiling Protocol variant, per
// spec.md §4.4 (C5), for resources whose contenders are all on one CPU.
// It fails if r is global; ceiling is recorded on r (or validated against
// a pinned ceiling, see InitResourceWithCeiling).
func LocalLock(h Host, r *Resource, ceiling Priority) error {
	if r == nil || r.IsGlobal {
		return ErrWrongVariant
	}
	if r.ceilingPinned && ceiling != r.Ceiling {
		return ErrCeilingMismatch
	}

	t := h.CurrentTask()
	if t == nil {
		return ErrNilTask
	}
	ts := t.State()

	base := h.Priority(t)

	r.mu.Lock()
	r.Ceiling = ceiling
	r.mu.Unlock()

	ts.savedPrio = base
	ts.hasSavedPrio = true

	eff := base
	if ceiling > base {
		eff = ceiling
	}
	h.SetPriority(t, eff)

	r.mu.Lock()
	r.owner = t
	r.mu.Unlock()

	h.SchedulerLock()
	ts.inCS = true

	return nil
}

// LocalUnlock releases a resource previously acquired with LocalLock, per
// spec.md §4.4. Restores the priority saved on entry, falling back to the
// task's current priority if LocalLock was never called (hasSavedPrio
// false), which replaces the original's "saved_prio == 0 means unset"
// convention (see spec.md §9).
func LocalUnlock(h Host, r *Resource) {
	t := h.CurrentTask()
	assertf(t != nil, "local_unlock: host returned a nil current task")
	ts := t.State()

	assertf(r != nil && !r.IsGlobal, "local_unlock: resource is nil or global")
	assertf(r.owner == t, "local_unlock: caller does not own resource")
	assertf(ts.inCS, "local_unlock: caller is not in a critical section")

	ts.inCS = false
	h.SchedulerUnlock()

	r.mu.Lock()
	r.owner = nil
	r.mu.Unlock()

	restore := h.Priority(t)
	if ts.hasSavedPrio {
		restore = ts.savedPrio
	}
	h.SetPriority(t, restore)

	ts.hasSavedPrio = false
	ts.savedPrio = 0
}
