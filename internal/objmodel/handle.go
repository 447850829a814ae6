package objmodel

import (
	"sync"
	"sync/atomic"
)

// shardCount is the number of independently-locked shards the handle
// table is split across, so that concurrent allocators on different
// shards never contend. Chosen as a power of two so shard selection is a
// cheap mask.
const shardCount = 16

const shardIndexBits = handleIndexBits - 4 // 4 bits select the shard.
const shardIndexMask = 1<<shardIndexBits - 1

// slotData is the per-index state of a shard's pool. generation is read
// without a lock by Resolve, matching spec.md §4.1's "readers never block
// writers" requirement; it is only ever written while the shard's mutex is
// held.
type slotData struct {
	generation uint32
	obj        *Object
}

type shard struct {
	mu       sync.Mutex
	slots    pool[slotData]
	freeList []uint32
}

// Table is a process-wide, sharded, append-mostly handle table: the sole
// source of pointer provenance for handle-addressed objects (spec.md §3.3).
type Table struct {
	shards [shardCount]shard
	// next round-robins shard selection for new allocations so a single
	// hot allocation path doesn't pin itself to one shard.
	next uint32
}

// NewTable constructs an empty handle table.
func NewTable() *Table {
	t := &Table{}
	for i := range t.shards {
		t.shards[i].slots = newPool[slotData]()
	}
	return t
}

// StaleHandleError is returned by call sites contracted to report stale
// resolution explicitly rather than falling back to the None tag.
type StaleHandleError struct {
	H Handle
}

func (e *StaleHandleError) Error() string {
	return "objmodel: stale handle"
}

// Alloc registers a new object and returns a tagged Handle Value with
// rc_strong=1.
func (t *Table) Alloc(typeID uint32, payload Payload) Value {
	start := atomic.AddUint32(&t.next, 1) % shardCount
	shardID, sh, localIdx := t.pickShard(start)

	slot := sh.slots.view(int(localIdx))
	slot.obj = &Object{
		Header: Header{
			TypeID:   typeID,
			RCStrong: 1,
			Gen:      slot.generation,
		},
		Payload: payload,
	}
	gen := slot.generation
	sh.mu.Unlock()

	idx := (shardID << shardIndexBits) | (localIdx & shardIndexMask)
	return BoxHandle(Handle{Generation: gen, Index: idx})
}

// pickShard selects the shard a new allocation lands on, returning it
// locked (callers must unlock it once they're done touching the slot).
// It starts at start (the round-robin hint) and prefers the first shard
// with a non-empty free list, so an index freed on shard X is very
// likely reallocated from shard X rather than wherever round-robin next
// happens to land — spec.md §8 scenario 1 requires a free-then-realloc
// on an otherwise-idle table to reuse the same index. Only when no shard
// has anything to free does it fall back to allocating a fresh slot on
// the round-robin shard.
func (t *Table) pickShard(start uint32) (shardID uint32, sh *shard, localIdx uint32) {
	for i := uint32(0); i < shardCount; i++ {
		id := (start + i) % shardCount
		cand := &t.shards[id]
		cand.mu.Lock()
		if n := len(cand.freeList); n > 0 {
			localIdx = cand.freeList[n-1]
			cand.freeList = cand.freeList[:n-1]
			return id, cand, localIdx
		}
		cand.mu.Unlock()
	}
	sh = &t.shards[start]
	sh.mu.Lock()
	idx, _ := sh.slots.allocate()
	return start, sh, uint32(idx)
}

// Resolve validates tag and generation and returns the live object, or
// (nil, false) if the handle is stale. It never dereferences a freed
// pointer: a generation mismatch short-circuits before any pointer load.
func (t *Table) Resolve(v Value) (*Object, bool) {
	if v.IsDouble() || v.Tag() != TagHandle {
		return nil, false
	}
	h := v.UnboxHandle()
	return t.resolveHandle(h)
}

func (t *Table) resolveHandle(h Handle) (*Object, bool) {
	shardID := h.Index >> shardIndexBits
	if shardID >= shardCount {
		return nil, false
	}
	sh := &t.shards[shardID]
	localIdx := int(h.Index & shardIndexMask)
	if localIdx >= sh.slots.len() {
		return nil, false
	}
	slot := sh.slots.view(localIdx)
	if atomic.LoadUint32(&slot.generation) != h.Generation {
		return nil, false
	}
	if slot.obj == nil {
		return nil, false // retired slot: generation kept, object dropped.
	}
	return slot.obj, true
}

// maxGeneration is the 17-bit generation width's ceiling, per spec.md
// §3.1/§4.1.
const maxGeneration = 1<<handleGenerationBits - 1

// Unregister increments the slot's generation (so stale handles fail to
// resolve), drops the object pointer, and returns the slot's index to the
// free list — unless the generation has exhausted its 17-bit width, in
// which case the index is permanently retired instead of being reused
// (spec.md §9, Open Question (a): this core treats rollover as retire).
func (t *Table) Unregister(h Handle) {
	shardID := h.Index >> shardIndexBits
	if shardID >= shardCount {
		return
	}
	sh := &t.shards[shardID]
	localIdx := int(h.Index & shardIndexMask)

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if localIdx >= sh.slots.len() {
		return
	}
	slot := sh.slots.view(localIdx)
	if slot.generation != h.Generation {
		return // already stale; nothing to do.
	}
	slot.obj = nil
	if slot.generation >= maxGeneration {
		// Retire: do not push back to the free list. The index is lost
		// for the lifetime of the process.
		return
	}
	atomic.AddUint32(&slot.generation, 1)
	sh.freeList = append(sh.freeList, uint32(localIdx))
}

// Stats reports coarse occupancy, primarily for tests.
type Stats struct {
	Allocated int
	Free      int
}

func (t *Table) Stats() Stats {
	var s Stats
	for i := range t.shards {
		sh := &t.shards[i]
		sh.mu.Lock()
		s.Allocated += sh.slots.len()
		s.Free += len(sh.freeList)
		sh.mu.Unlock()
	}
	return s
}
