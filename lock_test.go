package frap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mockHost is a minimal, single-threaded frap.Host good enough to drive
// Lock/Unlock/LocalLock/LocalUnlock/OnPreempt deterministically, without
// any real concurrency or scheduling. Yield is a caller-supplied hook, so
// tests can script exactly what happens each time a task would block.
type mockHost struct {
	current   Task
	lockDepth int
	onYield   func()
}

func (h *mockHost) CurrentTask() Task { return h.current }

func (h *mockHost) Priority(t Task) Priority { return t.(*mockTask).livePrio }

func (h *mockHost) SetPriority(t Task, p Priority) { t.(*mockTask).livePrio = p }

func (h *mockHost) SchedulerLock() { h.lockDepth++ }

func (h *mockHost) SchedulerUnlock() {
	if h.lockDepth == 0 {
		panic("mockHost: unbalanced SchedulerUnlock")
	}
	h.lockDepth--
}

func (h *mockHost) Yield() {
	if h.onYield != nil {
		h.onYield()
	}
}

func newMockHost(t *mockTask) *mockHost {
	return &mockHost{current: t}
}

func TestLockRejectsNonGlobalResource(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, false))

	a := &mockTask{name: "a"}
	h := newMockHost(a)

	require.ErrorIs(t, Lock(h, &r), ErrWrongVariant)
}

func TestLockRejectsSpinPrioBelowBase(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, true))

	a := &mockTask{name: "a", livePrio: 50}
	h := newMockHost(a)
	require.NoError(t, SetSpinPrio(h, 10))

	require.ErrorIs(t, Lock(h, &r), ErrSpinPrioTooLow)
}

// TestLockUncontendedGrantsImmediately exercises P1/P2: a free resource is
// granted to the first requester without yielding, at the requested spin
// priority, non-preemptively.
func TestLockUncontendedGrantsImmediately(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, true))

	a := &mockTask{name: "a", livePrio: 10}
	h := newMockHost(a)
	yielded := false
	h.onYield = func() { yielded = true }

	require.NoError(t, SetSpinPrio(h, 30))
	require.NoError(t, Lock(h, &r))

	require.False(t, yielded)
	require.Equal(t, Task(a), r.Owner())
	require.True(t, a.ts.inCS)
	require.False(t, a.ts.enqueued)
	require.Equal(t, Priority(30), h.Priority(a))
	require.Equal(t, 1, h.lockDepth)

	Unlock(h, &r)
	require.False(t, a.ts.inCS)
	require.Nil(t, r.Owner())
	require.Equal(t, Priority(10), h.Priority(a))
	require.Equal(t, 0, h.lockDepth)
}

// TestLockContendedWaitsThenGrantsFIFO exercises P4/P5/S-style FIFO
// ordering: a second requester is queued behind the owner and granted
// only once the owner releases, in arrival order.
func TestLockContendedWaitsThenGrantsFIFO(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, true))

	owner := &mockTask{name: "owner", livePrio: 10}
	ownerHost := newMockHost(owner)
	require.NoError(t, SetSpinPrio(ownerHost, 10))
	require.NoError(t, Lock(ownerHost, &r))

	waiter := &mockTask{name: "waiter", livePrio: 20}
	waiterHost := newMockHost(waiter)
	require.NoError(t, SetSpinPrio(waiterHost, 40))

	yieldCount := 0
	waiterHost.onYield = func() {
		yieldCount++
		if yieldCount == 1 {
			require.Equal(t, Task(waiter), r.fifo.peekHead())
			require.True(t, waiter.ts.enqueued)
			Unlock(ownerHost, &r)
		}
	}

	require.NoError(t, Lock(waiterHost, &r))

	require.Equal(t, 1, yieldCount)
	require.Equal(t, Task(waiter), r.Owner())
	require.True(t, waiter.ts.inCS)
	require.False(t, waiter.ts.enqueued)
	require.Equal(t, Priority(40), waiterHost.Priority(waiter))
}

func TestUnlockPanicsIfNotOwner(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, true))

	a := &mockTask{name: "a"}
	h := newMockHost(a)

	require.Panics(t, func() { Unlock(h, &r) })
}

func TestLocalLockElevatesToCeilingAndRestoresOnUnlock(t *testing.T) {
	var r Resource
	require.NoError(t, InitResourceWithCeiling(&r, 1, 100))

	a := &mockTask{name: "a", livePrio: 20}
	h := newMockHost(a)

	require.NoError(t, LocalLock(h, &r, 100))
	require.Equal(t, Priority(100), h.Priority(a))
	require.Equal(t, Task(a), r.Owner())

	LocalUnlock(h, &r)
	require.Equal(t, Priority(20), h.Priority(a))
	require.Nil(t, r.Owner())
}

func TestLocalLockRejectsCeilingMismatchWhenPinned(t *testing.T) {
	var r Resource
	require.NoError(t, InitResourceWithCeiling(&r, 1, 100))

	a := &mockTask{name: "a"}
	h := newMockHost(a)

	require.ErrorIs(t, LocalLock(h, &r, 50), ErrCeilingMismatch)
}

func TestLocalLockKeepsBasePrioIfAlreadyHigherThanCeiling(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, false))

	a := &mockTask{name: "a", livePrio: 200}
	h := newMockHost(a)

	require.NoError(t, LocalLock(h, &r, 50))
	require.Equal(t, Priority(200), h.Priority(a))
}

// TestOnPreemptCancelsEnqueuedWaiter exercises I9/S-style ejection: a task
// parked in a resource's wait FIFO, not yet in its critical section, is
// evicted and restored to base priority when a strictly higher priority
// task arrives on its CPU.
func TestOnPreemptCancelsEnqueuedWaiter(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, true))

	owner := &mockTask{name: "owner", livePrio: 10}
	ownerHost := newMockHost(owner)
	require.NoError(t, SetSpinPrio(ownerHost, 10))
	require.NoError(t, Lock(ownerHost, &r))

	waiter := &mockTask{name: "waiter", livePrio: 40}
	waiter.ts.basePrio = 20
	waiter.ts.spinPrio = 40
	waiter.ts.setWaitingRes(&r)
	r.fifo.enqueueTail(waiter)

	arriving := &mockTask{name: "arriving", livePrio: 90}

	OnPreempt(ownerHost, waiter, arriving)

	require.True(t, waiter.ts.cancelled)
	require.False(t, waiter.ts.enqueued)
	require.Equal(t, Priority(20), ownerHost.Priority(waiter))
	require.Nil(t, r.fifo.peekHead())
}

func TestOnPreemptIgnoresTaskInCriticalSection(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, true))

	owner := &mockTask{name: "owner", livePrio: 10}
	ownerHost := newMockHost(owner)
	require.NoError(t, SetSpinPrio(ownerHost, 10))
	require.NoError(t, Lock(ownerHost, &r))

	arriving := &mockTask{name: "arriving", livePrio: 90}

	OnPreempt(ownerHost, owner, arriving)

	require.True(t, owner.ts.inCS)
	require.Equal(t, Task(owner), r.Owner())
	require.Equal(t, Priority(10), ownerHost.Priority(owner))
}

func TestOnPreemptIgnoresEqualOrLowerPriorityArrival(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, true))

	waiter := &mockTask{name: "waiter", livePrio: 40}
	waiter.ts.basePrio = 20
	waiter.ts.spinPrio = 40
	waiter.ts.setWaitingRes(&r)
	r.fifo.enqueueTail(waiter)

	h := newMockHost(waiter)
	arriving := &mockTask{name: "arriving", livePrio: 40} // not strictly higher

	OnPreempt(h, waiter, arriving)

	require.True(t, waiter.ts.enqueued)
	require.False(t, waiter.ts.cancelled)
}

func TestOnPreemptIgnoresNilTasks(t *testing.T) {
	a := &mockTask{name: "a"}
	h := newMockHost(a)
	require.NotPanics(t, func() { OnPreempt(h, nil, a) })
	require.NotPanics(t, func() { OnPreempt(h, a, nil) })
}
