package async

import (
	"errors"
	"sync/atomic"
)

// ErrCancelled is raised by Check when the observed token is cancelled.
// spec.md §4.7: "a cooperative check intrinsic raises a cancellation
// when polled with a cancelled token."
var ErrCancelled = errors.New("async: cancelled")

// CancelToken is an immutable-shared structure with a single atomic
// cancelled bit (spec.md §4.7). A task may override its inherited token
// with its own (task overrides), but the override is a new CancelToken
// value, never a mutation of the parent's.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns a fresh, not-yet-cancelled token.
func NewCancelToken() *CancelToken { return &CancelToken{} }

// Cancel sets the token's cancelled bit. Idempotent.
func (t *CancelToken) Cancel() { t.cancelled.Store(true) }

// Cancelled reports the token's current state.
func (t *CancelToken) Cancelled() bool { return t.cancelled.Load() }

// Check is the cooperative check intrinsic: it returns ErrCancelled if
// token is cancelled, nil otherwise. Per spec.md §4.7, cancellation is
// "never injected at arbitrary points; only at declared check sites, at
// await, and at block_on re-entry" — callers must call Check only from
// those positions, never from inside a guard or other side-effect-free
// primitive.
func Check(token *CancelToken) error {
	if token != nil && token.Cancelled() {
		return ErrCancelled
	}
	return nil
}

// WithOverride returns a child token that is independently cancellable
// (a task-scoped override) without affecting parent. Checking the child
// does not consult the parent: spec.md's "task overrides" replace the
// effective token for that subtree rather than layering cancellation
// causes.
func WithOverride(parent *CancelToken) *CancelToken {
	_ = parent
	return NewCancelToken()
}
