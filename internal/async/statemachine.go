// Package async implements the cooperative state-machine lowering of
// spec.md §4.7: each coroutine/async-function is an objmodel.Coroutine
// with a resume target encoded the way the spec mandates — the bitwise
// complement of the instruction index to resume at, never the raw index
// itself, so a zero-valued resume target (state 0, "not yet started")
// can never collide with a real resume point encoded as ^0.
package async

import (
	"errors"

	"github.com/adpena/molt/internal/objmodel"
)

// ErrPollAfterCompletion is returned by StateMachine.Poll when called
// again after the coroutine already finished (spec.md §8's fuzzed
// "poll-after-completion" scenario).
var ErrPollAfterCompletion = errors.New("async: poll after coroutine completion")

// EncodeResumeTarget packs an instruction index as a resume target.
func EncodeResumeTarget(instructionIndex int32) int32 { return ^instructionIndex }

// DecodeResumeTarget recovers the instruction index from a resume
// target produced by EncodeResumeTarget.
func DecodeResumeTarget(resumeTarget int32) int32 { return ^resumeTarget }

// NotStarted is the resume target of a coroutine that has never been
// polled.
const NotStarted int32 = 0

// PollResult is the outcome of one poll of a coroutine's state machine:
// either it suspended again (Pending), or finished (Done) with either a
// Value or a raised exception (Raised, non-nil only when Done and the
// coroutine finished by throwing rather than returning).
type PollResult struct {
	Pending bool
	Done    bool
	Value   objmodel.Value
	Raised  bool
	Err     objmodel.Value
}

// StateMachine steps one coroutine. Step is supplied by the codegen
// backend's lowering of a function's body: given the coroutine's current
// resume target and locals, it runs until the next suspension point (or
// completion) and returns the new resume target to store back.
type StateMachine struct {
	Coroutine *objmodel.Coroutine
	Step      func(resumeTarget int32, locals []objmodel.Value) (next int32, result PollResult)
}

// Poll advances the coroutine by one step. If the coroutine is already
// Done, Poll returns ErrPollAfterCompletion rather than silently
// re-running (spec.md §8: "subsequent polls are undefined... tested via
// fuzzer that polls-after-completion and asserts the declared error").
func (s *StateMachine) Poll() (PollResult, error) {
	if s.Coroutine.Done {
		return PollResult{}, ErrPollAfterCompletion
	}
	next, result := s.Step(s.Coroutine.ResumeTarget, s.Coroutine.Locals)
	s.Coroutine.ResumeTarget = next
	if result.Done {
		s.Coroutine.Done = true
	}
	return result, nil
}
