// Package rc implements reference-count bookkeeping and the deferred
// cycle collector described in spec.md §4.2.
package rc

import (
	"sync/atomic"

	"github.com/adpena/molt/internal/objmodel"
)

// Manager owns the handle table and drives inc_ref/dec_ref, borrow
// tokens, and the cycle-candidate ring.
type Manager struct {
	table   *objmodel.Table
	cycle   *CycleCollector
	classes func(typeID uint32) (tracked bool, edges func(*objmodel.Object) []objmodel.Value)
}

// NewManager constructs a Manager over an existing handle table.
//
// classify reports, for a given type id, whether the type is a "tracked
// compound type" subject to cycle collection, and if so returns a
// function enumerating its outgoing edges (the Values it strongly
// references).
func NewManager(table *objmodel.Table, classify func(typeID uint32) (bool, func(*objmodel.Object) []objmodel.Value)) *Manager {
	m := &Manager{table: table, classes: classify}
	m.cycle = newCycleCollector(m)
	return m
}

// IncRef atomically increments an object's strong reference count. It is
// a no-op for non-handle values (doubles and other tagged scalars have no
// reference count).
func (m *Manager) IncRef(v objmodel.Value) {
	obj, ok := m.table.Resolve(v)
	if !ok {
		return
	}
	atomic.AddUint32(&obj.Header.RCStrong, 1)
}

// DecRef atomically decrements an object's strong reference count. When
// the count reaches zero, finalizers run, the slot is unregistered, and
// the payload is released. If the count remains positive and the object
// is a tracked compound type, it is queued as a cycle candidate.
func (m *Manager) DecRef(v objmodel.Value) {
	if v.IsDouble() || v.Tag() != objmodel.TagHandle {
		return
	}
	h := v.UnboxHandle()
	obj, ok := m.table.Resolve(v)
	if !ok {
		return
	}

	remaining := atomic.AddUint32(&obj.Header.RCStrong, ^uint32(0)) // -1
	if remaining == 0 {
		m.finalize(h, obj)
		return
	}

	tracked, _ := m.classes(obj.Header.TypeID)
	if tracked {
		obj.Header.Flags |= objmodel.FlagCycleCandidate
		m.cycle.enqueue(h)
	}
}

func (m *Manager) finalize(h objmodel.Handle, obj *objmodel.Object) {
	obj.Header.Flags |= objmodel.FlagFinalized
	// Strong references dropping to zero releases every strong edge this
	// object held, which may itself cascade into further DecRef calls.
	if _, edges := m.classes(obj.Header.TypeID); edges != nil {
		for _, child := range edges(obj) {
			m.DecRef(child)
		}
	}
	if atomic.LoadUint32(&obj.Header.RCWeak) == 0 {
		m.table.Unregister(h)
		return
	}
	// rc_weak > 0: per spec.md §4.2, "weak-ref slots persist until
	// rc_weak==0." The slot stays allocated (same generation, obj still
	// set) so ResolveWeak can keep observing rc_strong==0 and report None
	// until ReleaseWeak drops the last weak ref and unregisters it.
}

// WeakRef is a non-owning reference that survives its target's strong
// count reaching zero, per spec.md §3.3: weak references "survive
// strong-count zero but return None on resolve."
type WeakRef struct {
	h objmodel.Handle
}

// NewWeak creates a WeakRef to v and increments the target's rc_weak.
// The second return value is false if v does not currently resolve (a
// stale or non-handle Value), in which case the returned WeakRef is
// unusable.
func (m *Manager) NewWeak(v objmodel.Value) (WeakRef, bool) {
	obj, ok := m.table.Resolve(v)
	if !ok {
		return WeakRef{}, false
	}
	atomic.AddUint32(&obj.Header.RCWeak, 1)
	return WeakRef{h: v.UnboxHandle()}, true
}

// ResolveWeak resolves w to a new strong reference, or reports
// (None, false) once the target's rc_strong has already reached zero —
// even though the slot itself may still be held open by this or another
// outstanding weak ref.
func (m *Manager) ResolveWeak(w WeakRef) (objmodel.Value, bool) {
	v := objmodel.BoxHandle(w.h)
	obj, ok := m.table.Resolve(v)
	if !ok || obj.Header.RCStrong == 0 {
		return objmodel.None, false
	}
	atomic.AddUint32(&obj.Header.RCStrong, 1)
	return v, true
}

// ReleaseWeak decrements the target's rc_weak. If rc_weak reaches zero
// and rc_strong is already zero (the target was finalized while this
// weak ref was still outstanding), the slot is unregistered now, the way
// DecRef would have done immediately had no weak ref existed.
func (m *Manager) ReleaseWeak(w WeakRef) {
	v := objmodel.BoxHandle(w.h)
	obj, ok := m.table.Resolve(v)
	if !ok {
		return
	}
	remaining := atomic.AddUint32(&obj.Header.RCWeak, ^uint32(0)) // -1
	if remaining == 0 && obj.Header.RCStrong == 0 {
		m.table.Unregister(w.h)
	}
}

// CollectCycles runs one trial-deletion pass over the deferred
// cycle-candidate ring (spec.md §4.2).
func (m *Manager) CollectCycles() []objmodel.Handle {
	return m.cycle.Collect()
}

// Borrow creates a non-owning alias. The lowering contract (spec.md §4.2)
// is that a Borrow token never outlives a write barrier that could
// invalidate it; Manager does not track that, and no pass in this
// repository checks it on the IR. Manager only models the runtime
// no-op: borrowing does not change rc_strong.
type BorrowToken struct {
	v objmodel.Value
}

// Borrow returns a BorrowToken for v. No refcount change occurs.
func (m *Manager) Borrow(v objmodel.Value) BorrowToken {
	return BorrowToken{v: v}
}

// Release ends a BorrowToken. No refcount change occurs; Release exists so
// borrow/release lowering is symmetric and so instrumentation can count
// live borrows.
func (m *Manager) Release(BorrowToken) {}

// Value returns the Value a BorrowToken aliases.
func (t BorrowToken) Value() objmodel.Value { return t.v }
