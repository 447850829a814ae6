package rc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adpena/molt/internal/objmodel"
)

const listTypeID = 1

func listClassify(typeID uint32) (bool, func(*objmodel.Object) []objmodel.Value) {
	if typeID != listTypeID {
		return false, nil
	}
	return true, func(o *objmodel.Object) []objmodel.Value {
		seq := o.Payload.(*objmodel.Sequence)
		return seq.Elems
	}
}

func TestDecRefToZeroFreesAcyclicObject(t *testing.T) {
	table := objmodel.NewTable()
	mgr := NewManager(table, listClassify)

	v := table.Alloc(listTypeID, &objmodel.Sequence{})
	mgr.DecRef(v)

	_, ok := table.Resolve(v)
	require.False(t, ok)
}

func TestCycleCollection(t *testing.T) {
	// Scenario 4 of spec.md §8: A[0]=B, B[0]=A; drop both external
	// references; trial deletion reclaims both.
	table := objmodel.NewTable()
	mgr := NewManager(table, listClassify)

	a := table.Alloc(listTypeID, &objmodel.Sequence{})
	b := table.Alloc(listTypeID, &objmodel.Sequence{})

	objA, _ := table.Resolve(a)
	objB, _ := table.Resolve(b)
	objA.Payload.(*objmodel.Sequence).Elems = []objmodel.Value{b}
	objB.Payload.(*objmodel.Sequence).Elems = []objmodel.Value{a}
	mgr.IncRef(b) // A's edge to B
	mgr.IncRef(a) // B's edge to A

	hA := a.UnboxHandle()
	hB := b.UnboxHandle()

	// Drop the external references; each object's rc_strong goes from 2
	// to 1 (its own cyclic edge keeps it alive) and both are queued.
	mgr.DecRef(a)
	mgr.DecRef(b)

	_, stillResolvesA := table.Resolve(a)
	_, stillResolvesB := table.Resolve(b)
	require.True(t, stillResolvesA, "cyclic members survive plain DecRef until collection runs")
	require.True(t, stillResolvesB)

	collected := mgr.CollectCycles()
	require.ElementsMatch(t, []objmodel.Handle{hA, hB}, collected)

	_, ok := table.Resolve(a)
	require.False(t, ok)
	_, ok = table.Resolve(b)
	require.False(t, ok)
}

func TestCycleCollectionDoesNotCollectLiveExternalRoot(t *testing.T) {
	table := objmodel.NewTable()
	mgr := NewManager(table, listClassify)

	a := table.Alloc(listTypeID, &objmodel.Sequence{})
	b := table.Alloc(listTypeID, &objmodel.Sequence{})
	objA, _ := table.Resolve(a)
	objA.Payload.(*objmodel.Sequence).Elems = []objmodel.Value{b}
	mgr.IncRef(b)

	// b is still rooted by a's live external reference (rc_strong stays
	// at 2 if someone drops one ref to b directly without dropping a).
	mgr.IncRef(b)
	mgr.DecRef(b)

	collected := mgr.CollectCycles()
	require.Empty(t, collected)

	_, ok := table.Resolve(a)
	require.True(t, ok)
	_, ok = table.Resolve(b)
	require.True(t, ok)
}

func TestWeakRefResolvesWhileStrongLive(t *testing.T) {
	table := objmodel.NewTable()
	mgr := NewManager(table, listClassify)
	v := table.Alloc(listTypeID, &objmodel.Sequence{})

	w, ok := mgr.NewWeak(v)
	require.True(t, ok)

	resolved, ok := mgr.ResolveWeak(w)
	require.True(t, ok)
	require.Equal(t, v, resolved)

	obj, _ := table.Resolve(v)
	require.Equal(t, uint32(2), obj.Header.RCStrong, "ResolveWeak hands back a new strong reference")
}

func TestWeakRefSurvivesStrongZeroButResolvesToNone(t *testing.T) {
	table := objmodel.NewTable()
	mgr := NewManager(table, listClassify)
	v := table.Alloc(listTypeID, &objmodel.Sequence{})

	w, ok := mgr.NewWeak(v)
	require.True(t, ok)

	mgr.DecRef(v) // rc_strong -> 0, but rc_weak still 1: slot must persist.
	_, stillAllocated := table.Resolve(v)
	require.True(t, stillAllocated, "slot must persist while rc_weak > 0")

	resolved, ok := mgr.ResolveWeak(w)
	require.False(t, ok)
	require.Equal(t, objmodel.None, resolved)
}

func TestReleaseWeakAfterStrongZeroUnregistersSlot(t *testing.T) {
	table := objmodel.NewTable()
	mgr := NewManager(table, listClassify)
	v := table.Alloc(listTypeID, &objmodel.Sequence{})

	w, ok := mgr.NewWeak(v)
	require.True(t, ok)

	mgr.DecRef(v)
	_, ok = table.Resolve(v)
	require.True(t, ok, "slot persists until the last weak ref is released")

	mgr.ReleaseWeak(w)
	_, ok = table.Resolve(v)
	require.False(t, ok, "last weak ref released after strong-zero unregisters the slot")
}

func TestBorrowReleaseIsANoOpOnRefcount(t *testing.T) {
	table := objmodel.NewTable()
	mgr := NewManager(table, listClassify)
	v := table.Alloc(listTypeID, &objmodel.Sequence{})

	obj, _ := table.Resolve(v)
	before := obj.Header.RCStrong
	tok := mgr.Borrow(v)
	require.Equal(t, v, tok.Value())
	mgr.Release(tok)
	require.Equal(t, before, obj.Header.RCStrong)
}
