package frap

// OnPreempt is the scheduler hook described in spec.md §4.5 (C6). The
// host calls it on every context-switch decision, passing the outgoing
// and incoming tasks on the CPU making the switch. If old is spinning on
// a resource's wait FIFO and new is strictly higher priority, old is
// ejected: removed from the FIFO, marked cancelled, and restored to its
// base priority.
//
// OnPreempt never touches a task inside its critical section (inCS),
// and is a no-op if old isn't spinning at all.
//
// old's enqueued/inCS fields may be observed concurrently from old's own
// goroutine (inside Lock's admission loop), since a host such as frapsim
// has no way to actually freeze a running goroutine the way a real
// kernel freezes a preempted task. The eligibility check is therefore
// performed under r's short lock rather than before taking it, so both
// sides agree on the lock that makes the enqueued/inCS/cancelled
// transition observable (see the concurrency note on TaskState).
func OnPreempt(h Host, old, new Task) {
	if old == nil || new == nil {
		return
	}

	oldTs := old.State()

	if h.Priority(new) <= h.Priority(old) {
		return
	}

	r := oldTs.getWaitingRes()
	if r == nil {
		return
	}

	r.mu.Lock()
	eligible := oldTs.enqueued && !oldTs.inCS
	if eligible {
		r.fifo.remove(old)
		oldTs.cancelled = true
	}
	r.mu.Unlock()

	if !eligible {
		return
	}

	h.SetPriority(old, oldTs.basePrio)

	log.Debug().
		Uint64("resource_id", uint64(r.ID)).
		Int("spin_prio", int(oldTs.spinPrio)).
		Int("base_prio", int(oldTs.basePrio)).
		Log("frap: preempt cancelled a spinning waiter")
}
