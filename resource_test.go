package frap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitResourceGlobal(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 7, true))
	require.Equal(t, uint32(7), r.ID)
	require.True(t, r.IsGlobal)
	require.Nil(t, r.Owner())
	require.Empty(t, r.Waiters())
}

func TestInitResourceNil(t *testing.T) {
	require.ErrorIs(t, InitResource(nil, 1, true), ErrNilResource)
}

func TestInitResourceWithCeilingPinsCeiling(t *testing.T) {
	var r Resource
	require.NoError(t, InitResourceWithCeiling(&r, 3, 150))
	require.False(t, r.IsGlobal)
	require.Equal(t, Priority(150), r.Ceiling)
	require.True(t, r.ceilingPinned)
}

func TestValidateRejectsOwnedResource(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, true))

	r.owner = &mockTask{name: "x"}
	require.Error(t, Validate(&r))
}

func TestValidateRejectsNonEmptyFifo(t *testing.T) {
	var r Resource
	require.NoError(t, InitResource(&r, 1, true))

	r.fifo.enqueueTail(&mockTask{name: "x"})
	require.Error(t, Validate(&r))
}

func TestValidateRejectsZeroPinnedCeiling(t *testing.T) {
	var r Resource
	require.NoError(t, InitResourceWithCeiling(&r, 1, 0))
	require.Error(t, Validate(&r))
}

func TestValidateAllRejectsDuplicateIDs(t *testing.T) {
	var a, b Resource
	require.NoError(t, InitResource(&a, 5, true))
	require.NoError(t, InitResource(&b, 5, true))

	err := ValidateAll([]*Resource{&a, &b})
	require.Error(t, err)
}

func TestValidateAllAcceptsDistinctIDs(t *testing.T) {
	var a, b Resource
	require.NoError(t, InitResource(&a, 1, true))
	require.NoError(t, InitResource(&b, 2, false))

	require.NoError(t, ValidateAll([]*Resource{&a, &b}))
}

func TestSnapshotReflectsTaskState(t *testing.T) {
	mt := &mockTask{name: "a"}
	mt.ts.basePrio = 10
	mt.ts.spinPrio = 20
	mt.ts.inCS = true

	snap := Snapshot(mt)
	require.Equal(t, Priority(10), snap.BasePrio)
	require.Equal(t, Priority(20), snap.SpinPrio)
	require.True(t, snap.InCS)
	require.False(t, snap.Enqueued)
	require.False(t, snap.Cancelled)
}
