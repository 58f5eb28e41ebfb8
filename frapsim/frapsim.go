// Package frapsim is a reference implementation of the frap.Host and
// frap.Task interfaces: a small, cooperative, priority-ordered multi-core
// scheduler, used by this module's own tests and by cmd/frapdemo.
//
// It is deliberately not part of the protocol core (spec.md lists the
// host scheduler as an external collaborator, out of scope for the hard
// core), but it has to exist somewhere for the core to be exercisable at
// all. Its logical-CPU/run-queue shape is grounded on the toy GMP-style
// scheduler taught in the teacher pack's other_examples material
// (P = logical CPU run queue, G = runnable unit of work); its
// configuration style (nil-safe *Config, background goroutine) follows
// go-utilpkg/microbatch.BatcherConfig/NewBatcher. A Scheduler has no
// shutdown: its per-CPU goroutines run for the life of the process.
//
// Only one task per CPU is ever actually executing Go code at a time: the
// scheduler hands a task's goroutine a token (resume) and waits for it to
// either finish or voluntarily Yield, at which point the highest-priority
// ready task on that CPU is handed the token next. A newly-arriving task
// of strictly higher priority immediately triggers frap.OnPreempt against
// whichever task currently holds the token on its CPU — OnPreempt itself
// is a no-op unless that
// task happens to be spinning in a FRAP admission loop, which is the only
// case spec.md's protocol needs to observe.
package frapsim

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/frapsched/frap"
	"golang.org/x/sync/errgroup"
)

type (
	// SimTask is a simulated task-control-block: it embeds frap.TaskState
	// directly, the same way a real host embeds it in its own TCB type.
	SimTask struct {
		Name string

		priority  atomic.Int64
		lockDepth atomic.Int32
		state     frap.TaskState

		cpu    *cpuState
		resume chan struct{}
	}

	cpuState struct {
		id int

		mu      sync.Mutex
		ready   []*SimTask
		current *SimTask

		wake chan struct{}
	}

	// WorkerFunc is the body of a simulated task, run once the task is
	// first scheduled. Its frap.Host argument is bound to this specific
	// task: calling h.CurrentTask() always returns the task the function
	// is running as.
	WorkerFunc func(h frap.Host) error

	// Scheduler owns a fixed set of logical CPUs and the tasks assigned
	// to them.
	Scheduler struct {
		cpus []*cpuState
	}

	// Config models optional configuration for NewScheduler, in the
	// teacher's nil-safe *Config style (see microbatch.BatcherConfig).
	Config struct {
		// NumCPUs is the number of logical CPU run queues to simulate.
		// **Defaults to 1, if 0, or Config is nil.**
		NumCPUs int
	}
)

// State implements frap.Task.
func (t *SimTask) State() *frap.TaskState { return &t.state }

// Priority returns the task's current scheduling priority.
func (t *SimTask) Priority() frap.Priority { return frap.Priority(t.priority.Load()) }

// NewScheduler creates a Scheduler per config, which may be nil. Panics if
// config specifies a negative NumCPUs, matching the teacher's
// nil-safe-but-not-anything-goes config validation style
// (microbatch.NewBatcher panics on unsatisfiable config).
func NewScheduler(config *Config) *Scheduler {
	numCPUs := 1
	if config != nil && config.NumCPUs != 0 {
		numCPUs = config.NumCPUs
	}
	if numCPUs <= 0 {
		panic("frapsim: NumCPUs must be positive")
	}

	s := &Scheduler{cpus: make([]*cpuState, numCPUs)}
	for i := range s.cpus {
		s.cpus[i] = &cpuState{id: i, wake: make(chan struct{}, 1)}
		go s.runCPU(s.cpus[i])
	}
	return s
}

// NewTask registers a new task pinned to cpuID, with the given base
// priority. The task is not runnable until passed to Spawn.
func (s *Scheduler) NewTask(name string, cpuID int, basePrio frap.Priority) *SimTask {
	if cpuID < 0 || cpuID >= len(s.cpus) {
		panic("frapsim: cpuID out of range")
	}
	t := &SimTask{Name: name, cpu: s.cpus[cpuID], resume: make(chan struct{})}
	t.priority.Store(int64(basePrio))
	return t
}

// Spawn starts fn running as t's body, returning a channel that receives
// fn's result once it returns. t becomes ready immediately; if a
// higher-priority task is already running on t's CPU, spawning does not
// preempt it (preemption only matters for tasks spinning in a FRAP
// admission loop, evaluated by onArrival below).
func (s *Scheduler) Spawn(t *SimTask, fn WorkerFunc) <-chan error {
	done := make(chan error, 1)
	c := t.cpu

	c.mu.Lock()
	c.ready = append(c.ready, t)
	c.mu.Unlock()

	s.onArrival(c, t)
	s.kick(c)

	go func() {
		<-t.resume

		err := fn(s.hostFor(t))

		c.mu.Lock()
		if c.current == t {
			c.current = nil
		}
		c.mu.Unlock()
		s.kick(c)

		done <- err
	}()

	return done
}

// RunWorkers spawns every task/fn pair and waits for all of them,
// returning the first non-nil error (or ctx's error, if it's cancelled
// first). Mirrors golang.org/x/sync/errgroup's standard fan-out/fan-in
// shape. RunWorkers stops waiting once ctx is done or a worker fails; it
// does not stop workers that are still running.
func (s *Scheduler) RunWorkers(ctx context.Context, tasks []*SimTask, fns []WorkerFunc) error {
	if len(tasks) != len(fns) {
		panic("frapsim: tasks and fns must be the same length")
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make([]<-chan error, len(tasks))
	for i := range tasks {
		results[i] = s.Spawn(tasks[i], fns[i])
	}

	for i := range results {
		ch := results[i]
		g.Go(func() error {
			select {
			case err := <-ch:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	return g.Wait()
}

// runCPU is the logical CPU's scheduling loop: always runs the
// highest-priority ready task, handing it the resume token and blocking
// until something changes (another arrival, a yield, or completion).
func (s *Scheduler) runCPU(c *cpuState) {
	for {
		c.mu.Lock()
		if c.current == nil && len(c.ready) > 0 {
			idx := highestPriorityIndex(c.ready)
			next := c.ready[idx]
			c.ready = append(c.ready[:idx:idx], c.ready[idx+1:]...)
			c.current = next
			c.mu.Unlock()

			next.resume <- struct{}{}
			continue
		}
		c.mu.Unlock()

		<-c.wake
	}
}

// onArrival fires the scheduler hook if a task is currently holding the
// run token on arriving's CPU and arriving is strictly higher priority.
func (s *Scheduler) onArrival(c *cpuState, arriving *SimTask) {
	c.mu.Lock()
	cur := c.current
	c.mu.Unlock()

	if cur != nil && cur != arriving && arriving.Priority() > cur.Priority() {
		frap.OnPreempt(s, cur, arriving)
	}
}

// yield implements frap.Host.Yield for a bound task: re-queue, wake the
// CPU loop, and block until rescheduled.
func (s *Scheduler) yield(t *SimTask) {
	c := t.cpu

	c.mu.Lock()
	c.current = nil
	c.ready = append(c.ready, t)
	c.mu.Unlock()

	s.onArrival(c, t)
	s.kick(c)

	<-t.resume
}

func (s *Scheduler) kick(c *cpuState) {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func highestPriorityIndex(ready []*SimTask) int {
	best := 0
	for i := 1; i < len(ready); i++ {
		if ready[i].Priority() > ready[best].Priority() {
			best = i
		}
	}
	return best
}

// --- frap.Host, bound to the scheduler as a whole (no current task) ---
//
// Used internally (e.g. by onArrival's call to frap.OnPreempt, which only
// needs Priority/SetPriority) wherever a Host is required but there is no
// single task it should be "current" for.

func (s *Scheduler) CurrentTask() frap.Task {
	panic("frapsim: Scheduler.CurrentTask is per-task; use a task-bound Host")
}

func (s *Scheduler) Priority(t frap.Task) frap.Priority {
	return t.(*SimTask).Priority()
}

func (s *Scheduler) SetPriority(t frap.Task, p frap.Priority) {
	t.(*SimTask).priority.Store(int64(p))
}

func (s *Scheduler) SchedulerLock() {
	panic("frapsim: Scheduler.SchedulerLock is per-task; use a task-bound Host")
}

func (s *Scheduler) SchedulerUnlock() {
	panic("frapsim: Scheduler.SchedulerUnlock is per-task; use a task-bound Host")
}

func (s *Scheduler) Yield() {
	panic("frapsim: Scheduler.Yield is per-task; use a task-bound Host")
}

// --- frap.Host, bound to a single task ---

type taskHost struct {
	s *Scheduler
	t *SimTask
}

func (s *Scheduler) hostFor(t *SimTask) frap.Host { return &taskHost{s: s, t: t} }

func (h *taskHost) CurrentTask() frap.Task { return h.t }

func (h *taskHost) Priority(t frap.Task) frap.Priority { return h.s.Priority(t) }

func (h *taskHost) SetPriority(t frap.Task, p frap.Priority) { h.s.SetPriority(t, p) }

func (h *taskHost) SchedulerLock() { h.t.lockDepth.Add(1) }

func (h *taskHost) SchedulerUnlock() {
	if h.t.lockDepth.Add(-1) < 0 {
		panic("frapsim: SchedulerUnlock called without a matching SchedulerLock")
	}
}

func (h *taskHost) Yield() { h.s.yield(h.t) }

// LockDepth reports t's current scheduler-lock nesting depth, for tests
// asserting P3 (non-preemption of the owner).
func (t *SimTask) LockDepth() int32 { return t.lockDepth.Load() }
