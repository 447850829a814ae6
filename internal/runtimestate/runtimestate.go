package runtimestate

import (
	"errors"
	"runtime"

	"github.com/adpena/molt/internal/guard"
	"github.com/adpena/molt/internal/intrinsics"
	"github.com/adpena/molt/internal/objmodel"
	"github.com/adpena/molt/internal/rc"
)

// ErrAlreadyShutdown is returned by WithGIL/WithGILEntry once Shutdown
// has drained the RuntimeState.
var ErrAlreadyShutdown = errors.New("runtimestate: runtime state already shut down")

// RuntimeState is the single runtime instance spec.md §9 calls for: the
// handle table, class registry, intrinsics registry, and guard feedback
// counters, all mutated only while holding the token returned by New.
// There is exactly one RuntimeState per process in normal operation, but
// nothing in this package enforces that — it is passed explicitly
// rather than reached for as a package-level var, so tests can construct
// as many independent instances as they like.
type RuntimeState struct {
	token *PyToken

	Handles    *objmodel.Table
	Classes    *objmodel.Registry
	Intrinsics *intrinsics.Registry
	RC         *rc.Manager
	Feedback   *guard.Counters

	// setFinalizer defaults to runtime.SetFinalizer, overridable in tests
	// the way the teacher's own engine.setFinalizer field is (engine.go).
	setFinalizer func(obj interface{}, finalizer interface{})

	shutdown bool
}

// New constructs a RuntimeState and its owning PyToken. classify is
// forwarded to rc.NewManager to let the cycle collector find an object's
// referent slots (spec.md §4.2).
func New(classify func(typeID uint32) (bool, func(*objmodel.Object) []objmodel.Value)) (*RuntimeState, *PyToken) {
	handles := objmodel.NewTable()
	rt := &RuntimeState{
		Handles:      handles,
		Classes:      objmodel.NewRegistry(),
		Intrinsics:   intrinsics.NewRegistry(),
		RC:           rc.NewManager(handles, classify),
		Feedback:     guard.NewCounters(),
		setFinalizer: runtime.SetFinalizer,
	}
	tok := &PyToken{rt: rt}
	return rt, tok
}

// WithGIL runs fn while holding tok, the single-writer discipline
// spec.md §5 requires of every runtime mutation entrypoint ("All
// runtime mutation entrypoints require with_gil / with_gil_entry
// enforcement; bypass is forbidden"). Returns ErrAlreadyShutdown instead
// of running fn if Shutdown has already drained this RuntimeState.
func (rt *RuntimeState) WithGIL(tok *PyToken, fn func() error) error {
	if tok.rt != rt {
		panic("runtimestate: token does not belong to this RuntimeState")
	}
	release := tok.acquire()
	defer release()
	if rt.shutdown {
		return ErrAlreadyShutdown
	}
	return fn()
}

// WithGILEntry is WithGIL's re-entry variant for a user-spawned thread
// resuming after an I/O-bound wait that released the token (spec.md
// §5: "User-spawned threads run only during I/O-bound waits that
// release the token; they re-acquire before touching objects"). It is
// the same synchronization as WithGIL; the separate name documents the
// call site's intent (initial entry vs. re-acquire-after-release) the
// way spec.md's prose distinguishes them.
func (rt *RuntimeState) WithGILEntry(tok *PyToken, fn func() error) error {
	return rt.WithGIL(tok, fn)
}

// Shutdown drains the RuntimeState: it marks the state closed so any
// further WithGIL/WithGILEntry call fails fast rather than silently
// mutating a torn-down runtime. It writes no guard feedback; writing the
// artifact via internal/feedback is left to the caller.
func (rt *RuntimeState) Shutdown(tok *PyToken) error {
	return rt.WithGIL(tok, func() error {
		rt.shutdown = true
		return nil
	})
}
