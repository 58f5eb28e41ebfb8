// Package telemetry provides optional contention telemetry for FRAP
// resources: a bounded rolling window of recent wait and hold durations,
// recorded on every successful frap Lock/Unlock pair (the local PCP
// variant records nothing). It is purely observational — see SPEC_FULL.md's "contention
// telemetry" addition — and never influences admission order or
// priority, so it does not touch any invariant in spec.md §3-§5.
package telemetry

import (
	"sync"
	"time"
)

// Recorder implements frap.Recorder: attach one per Resource via
// Resource.Recorder to start collecting samples.
type Recorder struct {
	mu   sync.Mutex
	wait *ring[int64]
	hold *ring[int64]
}

// Config models optional configuration for NewRecorder, in the teacher's
// nil-safe *Config style (see microbatch.BatcherConfig).
type Config struct {
	// WindowSize is the number of most-recent samples retained per
	// sample kind (wait, hold). Must be a power of two.
	// **Defaults to 64, if 0, or Config is nil.**
	WindowSize int
}

// NewRecorder returns a Recorder per config, which may be nil.
func NewRecorder(config *Config) *Recorder {
	windowSize := 64
	if config != nil && config.WindowSize != 0 {
		windowSize = config.WindowSize
	}
	return &Recorder{
		wait: newRing[int64](windowSize),
		hold: newRing[int64](windowSize),
	}
}

// RecordWait records the time a task spent spinning before acquiring the
// resource.
func (x *Recorder) RecordWait(waitNanos int64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.wait.push(waitNanos)
}

// RecordHold records the duration of a completed critical section.
func (x *Recorder) RecordHold(holdNanos int64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.hold.push(holdNanos)
}

// Snapshot is a point-in-time summary of recorded samples.
type Snapshot struct {
	WaitSamples int
	MeanWait    time.Duration
	HoldSamples int
	MeanHold    time.Duration
}

// Snapshot computes the current rolling averages.
func (x *Recorder) Snapshot() Snapshot {
	x.mu.Lock()
	defer x.mu.Unlock()

	waitSum, waitN := x.wait.sumAndCount()
	holdSum, holdN := x.hold.sumAndCount()

	var s Snapshot
	s.WaitSamples = waitN
	s.HoldSamples = holdN
	if waitN > 0 {
		s.MeanWait = time.Duration(waitSum / int64(waitN))
	}
	if holdN > 0 {
		s.MeanHold = time.Duration(holdSum / int64(holdN))
	}
	return s
}
