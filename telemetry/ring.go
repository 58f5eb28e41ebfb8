package telemetry

import "golang.org/x/exp/constraints"

// ring is a fixed-capacity, power-of-two circular buffer, adapted from
// the ring buffer in go-utilpkg/catrate/ring.go. Unlike catrate's ring
// (which grows on insert and keeps elements sorted, for sliding-window
// rate counting), telemetry only needs a bounded trailing window of the
// most recent samples for a rolling average, so this variant never grows
// and overwrites the oldest element once full, trading the sorted-insert
// machinery for an O(1) Push. Generic over the sample type so the same
// buffer backs both the nanosecond-duration rings here and any future
// integer-valued counter.
type ring[T constraints.Integer] struct {
	s    []T
	r, w uint
}

func newRing[T constraints.Integer](size int) *ring[T] {
	if size <= 0 || size&(size-1) != 0 {
		panic(`telemetry: ring: size must be a power of 2`)
	}
	return &ring[T]{s: make([]T, size)}
}

func (x *ring[T]) mask(val uint) uint {
	return val & (uint(len(x.s)) - 1)
}

func (x *ring[T]) len() int {
	return int(x.w - x.r)
}

// push appends v, evicting the oldest sample if the ring is full.
func (x *ring[T]) push(v T) {
	if x.len() == len(x.s) {
		x.r++
	}
	x.s[x.mask(x.w)] = v
	x.w++
}

// sumAndCount supports a rolling average, recomputed on every call by
// iterating the live window, which is bounded by capacity.
func (x *ring[T]) sumAndCount() (sum T, count int) {
	count = x.len()
	for i := 0; i < count; i++ {
		sum += x.s[x.mask(x.r+uint(i))]
	}
	return sum, count
}
