package objmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleStaleAfterFree(t *testing.T) {
	// Scenario 1 of spec.md §8: allocate a list, dec to zero, resolve ->
	// stale; allocate again -> same index, generation+1.
	table := NewTable()
	v := table.Alloc(1, &Sequence{})
	h := v.UnboxHandle()

	obj, ok := table.Resolve(v)
	require.True(t, ok)
	require.Equal(t, uint32(1), obj.Header.TypeID)

	table.Unregister(h)
	_, ok = table.Resolve(v)
	require.False(t, ok)

	v2 := table.Alloc(1, &Sequence{})
	h2 := v2.UnboxHandle()
	require.Equal(t, h.Index, h2.Index)
	require.Equal(t, h.Generation+1, h2.Generation)
}

func TestHandleResolveNeverReturnsStalePointer(t *testing.T) {
	table := NewTable()
	v := table.Alloc(2, &FixedStruct{ClassID: 7})
	h := v.UnboxHandle()
	table.Unregister(h)

	// A forged handle at the same index but wrong generation must never
	// resolve to the freed object.
	forged := BoxHandle(Handle{Generation: h.Generation, Index: h.Index})
	_, ok := table.Resolve(forged)
	require.False(t, ok)
}

func TestResolveRejectsNonHandleValues(t *testing.T) {
	table := NewTable()
	_, ok := table.Resolve(BoxInt47(5))
	require.False(t, ok)
	_, ok = table.Resolve(None)
	require.False(t, ok)
}

func TestGenerationRolloverRetiresIndex(t *testing.T) {
	table := NewTable()
	v := table.Alloc(1, &Sequence{})
	h := v.UnboxHandle()

	shardID := h.Index >> shardIndexBits
	localIdx := int(h.Index & shardIndexMask)
	sh := &table.shards[shardID]
	sh.slots.view(localIdx).generation = maxGeneration

	table.Unregister(Handle{Generation: maxGeneration, Index: h.Index})
	require.Empty(t, sh.freeList, "a max-generation slot must be retired, not recycled")
}
