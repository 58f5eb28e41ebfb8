package frap

import (
	"errors"
	"fmt"
)

// Misuse errors, returned to the caller without mutating any state. These
// correspond to §7's "Misuse (invalid argument)" taxonomy: null resource,
// wrong-variant lock called on a resource, or a spin priority below base.
var (
	ErrNilResource     = errors.New("frap: nil resource")
	ErrWrongVariant    = errors.New("frap: wrong resource variant for this operation")
	ErrSpinPrioTooLow  = errors.New("frap: spin priority is lower than base priority")
	ErrCeilingMismatch = errors.New("frap: ceiling does not match resource's pinned ceiling")
	ErrNilTask         = errors.New("frap: host returned a nil current task")
)

// assertf panics unconditionally when cond is false. §7 classifies these as
// debug-assert violations (unlocking a resource you don't own, unlocking
// without being in a critical section, double-enqueue): bugs, not runtime
// conditions, so there is no recoverable return path.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("frap: "+format, args...))
	}
}
