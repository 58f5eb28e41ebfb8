package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingPanicsOnNonPowerOfTwo(t *testing.T) {
	require.Panics(t, func() { newRing[int64](3) })
	require.Panics(t, func() { newRing[int64](0) })
}

func TestRingPushAndSum(t *testing.T) {
	r := newRing[int64](4)
	r.push(1)
	r.push(2)
	r.push(3)

	sum, count := r.sumAndCount()
	require.Equal(t, 3, count)
	require.Equal(t, int64(6), sum)
}

func TestRingEvictsOldestWhenFull(t *testing.T) {
	r := newRing[int64](4)
	r.push(1)
	r.push(2)
	r.push(3)
	r.push(4)
	r.push(5) // evicts 1

	sum, count := r.sumAndCount()
	require.Equal(t, 4, count)
	require.Equal(t, int64(2+3+4+5), sum)
}

func TestRingEmpty(t *testing.T) {
	r := newRing[int64](8)
	sum, count := r.sumAndCount()
	require.Zero(t, count)
	require.Zero(t, sum)
}
