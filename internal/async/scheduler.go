package async

// Scheduler is the single-threaded cooperative executor described in
// spec.md §4.7: no preemption, no interleaving across with-gil sections,
// and callbacks fire in enqueue order. It holds a FIFO of ready
// coroutines and drives each one's StateMachine until it yields or
// completes.
type Scheduler struct {
	ready []*StateMachine
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler { return &Scheduler{} }

// Enqueue appends sm to the back of the ready queue.
func (s *Scheduler) Enqueue(sm *StateMachine) { s.ready = append(s.ready, sm) }

// RunReady drains the current ready queue once, polling each coroutine
// exactly once in enqueue order; coroutines that are still Pending after
// their poll are re-enqueued at the back, preserving "enqueue order ==
// resume order" for everything that was ready at the start of this call.
func (s *Scheduler) RunReady() error {
	batch := s.ready
	s.ready = nil
	for _, sm := range batch {
		result, err := sm.Poll()
		if err != nil {
			return err
		}
		if result.Pending {
			s.ready = append(s.ready, sm)
		}
	}
	return nil
}

// BlockOn repeatedly polls future until it produces a non-pending
// result, running the scheduler's other ready work between polls so a
// coroutine woken by this future's completion gets its turn (spec.md
// §4.7: "block_on(future) which repeatedly calls the future's poll
// vtable until a non-pending value is produced").
func (s *Scheduler) BlockOn(sm *StateMachine) (PollResult, error) {
	for {
		result, err := sm.Poll()
		if err != nil {
			return PollResult{}, err
		}
		if !result.Pending {
			return result, nil
		}
		if err := s.RunReady(); err != nil {
			return PollResult{}, err
		}
	}
}
