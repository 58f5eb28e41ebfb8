package frap

// Priority is a scheduling priority. Higher values mean higher priority,
// matching the host kernel's convention referenced throughout spec.md
// (e.g. "newtcb->sched_priority <= oldtcb->sched_priority"). It is a plain
// signed int rather than the original's mixed int8_t/uint8_t pairing,
// which spec.md §9 flags as an ambiguity worth removing rather than
// preserving.
type Priority int

// Task is the host's task-control-block, as seen by the core. Hosts embed
// TaskState in their own TCB type and return a pointer to it from State.
//
// Implementations must be comparable (typically a pointer type), since the
// core compares Task values for identity (e.g. FIFO head checks, owner
// checks).
type Task interface {
	// State returns this task's embedded FRAP protocol state. The returned
	// pointer must be stable for the task's lifetime.
	State() *TaskState
}

// Host is the narrow set of kernel services the core consumes, per spec.md
// §6. None of these are implemented by this package; see package frapsim
// for a reference implementation suitable for tests and simulation.
type Host interface {
	// CurrentTask returns the task running on the calling goroutine's
	// (logical) CPU.
	CurrentTask() Task

	// Priority returns t's current scheduling priority.
	Priority(t Task) Priority

	// SetPriority sets t's scheduling priority. Safe to call on another
	// task or on the caller itself.
	SetPriority(t Task, p Priority)

	// SchedulerLock makes the calling task's CPU non-preemptible. Nests as
	// a counter: SchedulerLock/SchedulerUnlock calls must balance.
	SchedulerLock()

	// SchedulerUnlock reverses one SchedulerLock call.
	SchedulerUnlock()

	// Yield cooperatively relinquishes the CPU, returning once the calling
	// task is rescheduled.
	Yield()
}
