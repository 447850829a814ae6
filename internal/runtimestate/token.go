// Package runtimestate implements the explicit "no ambient singletons"
// runtime redesign spec.md §9 calls for: "a single RuntimeState acquired
// via an explicit token; no ambient singletons; initialization is
// explicit at module entry and teardown drains per-thread guards."
// Grounded on the teacher's own engine.mux sync.RWMutex field
// (internal/engine/wazevo/engine.go), generalized from an embedded mutex
// into an explicit capability object every mutating entrypoint requires.
package runtimestate

import "sync"

// PyToken is the explicit GIL-like capability spec.md §5/§9 names: a
// caller must hold one to mutate any runtime-owned state (handle table,
// class registry, intrinsics table, cycle-candidate ring). Unlike a bare
// sync.Mutex, possessing a *PyToken is a value callers pass around and
// required-by-signature, rather than an ambient lock a function reaches
// out and grabs — exactly spec.md's "no ambient singletons" redesign
// note (§ REDESIGN FLAGS).
type PyToken struct {
	mu sync.Mutex
	rt *RuntimeState
}

// acquire blocks until the token is held exclusively and returns a
// release func. Internal: callers go through RuntimeState.WithGIL /
// WithGILEntry rather than calling this directly, so every acquisition
// site is visible in one place for review.
func (t *PyToken) acquire() func() {
	t.mu.Lock()
	return t.mu.Unlock
}
