package frap

import "time"

// Lock implements the FRAP global admission state machine, per spec.md
// §4.2 (C4). On success, the calling task owns r, runs at its spin
// priority, and holds scheduler-lock depth >= 1 on its CPU (non-
// preemptive) until Unlock.
//
// Lock fails fast, without mutating any state, if r is nil or local-only,
// or if the task's spin-priority register (see SetSpinPrio) is below its
// current scheduling priority, and returns ErrNilTask if the host reports
// no current task. Otherwise it never fails: admission is retried
// internally via Host.Yield until granted.
func Lock(h Host, r *Resource) error {
	if r == nil || !r.IsGlobal {
		return ErrWrongVariant
	}

	t := h.CurrentTask()
	if t == nil {
		return ErrNilTask
	}
	ts := t.State()

	// Prologue (step 1).
	base := h.Priority(t)
	spin := ts.requestedSpinPrio
	if spin < base {
		return ErrSpinPrioTooLow
	}

	assertf(!ts.enqueued, "lock: task is already enqueued on another resource")

	ts.cancelled = false
	ts.inCS = false
	ts.basePrio = base
	ts.spinPrio = spin
	// Publish last: once OnPreempt can see a non-nil waitingRes, it must
	// also see the basePrio/spinPrio written above, since everything past
	// this point is guarded by r's short lock on both sides (see task.go).
	ts.setWaitingRes(r)

	// Step 2: raise priority before any FIFO interaction.
	h.SetPriority(t, spin)

	var started time.Time
	if r.Recorder != nil {
		started = waitClockNow()
	}

	// Step 3: admission loop.
	for {
		r.mu.Lock()

		// cancelled is set by OnPreempt under this same lock, after it has
		// ejected this task from the FIFO and restored its base priority.
		// Observing and clearing it here keeps both the set and the clear
		// synchronized on r.mu, and re-raises the task to its spin priority
		// before it contends again.
		if ts.cancelled {
			ts.cancelled = false
			h.SetPriority(t, spin)
		}

		canEnter := false
		if r.owner == nil {
			switch head := r.fifo.peekHead(); {
			case head == nil:
				r.fifo.enqueueHeadIfAbsent(t)
				canEnter = true
			case head == t:
				canEnter = true
			}
		}

		if canEnter {
			r.fifo.remove(t)
			r.owner = t

			h.SchedulerLock()
			ts.inCS = true
			if r.Recorder != nil {
				ts.heldSince = holdClockNow()
			}

			r.mu.Unlock()

			recordWait(r, started)
			return nil
		}

		r.fifo.enqueueTail(t)
		r.mu.Unlock()

		h.Yield()
	}
}

// Unlock releases a resource previously acquired with Lock, per spec.md
// §4.3. Misuse (unlocking a resource not owned, or without being in a
// critical section) is a debug-assert violation, not a recoverable error.
func Unlock(h Host, r *Resource) {
	t := h.CurrentTask()
	assertf(t != nil, "unlock: host returned a nil current task")
	ts := t.State()

	assertf(r != nil && r.IsGlobal, "unlock: resource is nil or not global")
	assertf(r.owner == t, "unlock: caller does not own resource")
	assertf(ts.inCS, "unlock: caller is not in a critical section")

	held := ts.heldSince

	r.mu.Lock()
	ts.inCS = false
	r.owner = nil
	r.mu.Unlock()

	h.SchedulerUnlock()
	h.SetPriority(t, ts.basePrio)
	ts.setWaitingRes(nil)

	recordHold(r, held)
}
