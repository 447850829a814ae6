package dispatch

import (
	"sync/atomic"

	"github.com/adpena/molt/internal/guard"
	"github.com/adpena/molt/internal/ssa"
)

// CalleeKey is the cached identity of an indirect call's target: a
// class's type_id plus the class_version a shape guard pins against
// (spec.md §3.2, §6).
type CalleeKey struct {
	TypeID       uint32
	ClassVersion uint32
}

// cacheState is the small state machine an inline-cache Site walks
// through, adapted from the VReg assignment states in the teacher's
// register allocator (backend/regalloc/reg.go): a site starts
// unassigned, settles into one concrete assignment the first time it is
// observed, and falls back to an unconditional mode once more than one
// assignment has been seen.
type cacheState uint8

const (
	cacheUninitialized cacheState = iota
	cacheMonomorphic
	cacheMegamorphic
)

// megamorphicThreshold is the number of distinct-callee misses a
// monomorphic site tolerates before giving up on caching it at all.
// Spec.md leaves the exact threshold unspecified ("on miss, it falls
// back to full dispatch and optionally re-populates"); a site is
// abandoned on its second miss, since RecordMiss switches only once the
// count exceeds this threshold, rather than thrashing the cache every
// call.
const megamorphicThreshold = 1

// Site is one indirect call site's inline cache. Zero value is a valid,
// uninitialized site. All methods are safe for concurrent use by a
// single compiling thread observing feedback; the miss counter is atomic
// so a concurrently running Tier1 function can bump it from the guard's
// deopt path without a lock.
type Site struct {
	ID string

	state    cacheState
	cached   CalleeKey
	funcRef  uint32
	misses   atomic.Uint32
}

// NewSite returns a fresh, uninitialized inline-cache site for id.
func NewSite(id string) *Site { return &Site{ID: id} }

// Populate records key/funcRef as the site's single observed callee. A
// site already in cacheMegamorphic never re-populates implicitly —
// callers that want to retry caching after the site cools down call
// Reset first, matching spec.md's "optionally re-populates".
func (s *Site) Populate(key CalleeKey, funcRef uint32) {
	if s.state == cacheMegamorphic {
		return
	}
	s.cached = key
	s.funcRef = funcRef
	s.state = cacheMonomorphic
	s.misses.Store(0)
}

// RecordMiss reports that a call through this site observed a callee
// other than s.cached. Once misses exceeds megamorphicThreshold the site
// gives up on caching and permanently falls back to full dispatch.
func (s *Site) RecordMiss() {
	if s.misses.Add(1) > megamorphicThreshold {
		s.state = cacheMegamorphic
	}
}

// Reset clears a megamorphic site back to uninitialized, letting a later
// Populate try caching it again.
func (s *Site) Reset() {
	s.state = cacheUninitialized
	s.misses.Store(0)
	s.funcRef = 0
}

// Monomorphic reports whether the site currently trusts a single cached
// callee.
func (s *Site) Monomorphic() bool { return s.state == cacheMonomorphic }

// Lookup returns the cached funcRef and true if the site is monomorphic;
// callers still must guard the call (EmitGuard) before trusting it,
// since the cache reflects feedback from a prior compilation, not a
// runtime-verified fact about the current call.
func (s *Site) Lookup() (funcRef uint32, ok bool) {
	if s.state != cacheMonomorphic {
		return 0, false
	}
	return s.funcRef, true
}

// EmitGuard emits a guard_callee instruction validating that subject
// (the callee's resolved type_id/class_version pair, encoded into aux by
// the caller per spec.md §3.2's header layout) matches s.cached, and
// reports true. If the site is not monomorphic it emits nothing and
// returns false: the caller must fall back to full dispatch
// (ssa.OpCallIndirect over the unguarded callee) instead.
func EmitGuard(b *ssa.Builder, s *Site, subject ssa.Value, deoptTarget *ssa.BasicBlock) (*ssa.Instruction, bool) {
	if s.state != cacheMonomorphic {
		return nil, false
	}
	aux := uint64(s.cached.TypeID)<<32 | uint64(s.cached.ClassVersion)
	ins := guard.Emit(b, guard.ReasonCalleeMismatch, subject, aux, deoptTarget, s.ID)
	return ins, true
}
