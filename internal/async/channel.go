package async

import "github.com/adpena/molt/internal/objmodel"

// Channel wraps an objmodel.Channel payload with the cooperative
// send/recv semantics spec.md §4.7 and §8 Scenario 3 describe: unbounded
// (Send never blocks), Recv suspends (via ChanRecvYield) only when the
// queue is empty and the channel is still open, and a closed, drained
// channel ends iteration rather than suspending forever.
type Channel struct {
	payload *objmodel.Channel
}

// NewChannel wraps an existing Channel payload (already allocated in the
// heap and handle-addressed by the caller).
func NewChannel(payload *objmodel.Channel) *Channel { return &Channel{payload: payload} }

// Send enqueues v. Per spec.md this is the ChanSendYield opcode's
// runtime counterpart; unbounded channels never actually suspend on
// send, so Send always succeeds synchronously.
func (c *Channel) Send(v objmodel.Value) {
	c.payload.Queue = append(c.payload.Queue, v)
	c.payload.Waiters = nil // any waiter gets its turn on the next RunReady pass.
}

// Close marks the channel closed; pending and future Recv calls drain
// whatever remains in the queue, then report done.
func (c *Channel) Close() { c.payload.Closed = true }

// RecvResult is the outcome of one Recv attempt.
type RecvResult struct {
	Value   objmodel.Value
	OK      bool // true: Value is valid. false+!Pending: channel closed and drained.
	Pending bool // true: queue empty, channel open — caller should suspend via ChanRecvYield.
}

// Recv dequeues the oldest value, or reports Pending/closed-and-drained.
func (c *Channel) Recv() RecvResult {
	if len(c.payload.Queue) > 0 {
		v := c.payload.Queue[0]
		c.payload.Queue = c.payload.Queue[1:]
		return RecvResult{Value: v, OK: true}
	}
	if c.payload.Closed {
		return RecvResult{}
	}
	return RecvResult{Pending: true}
}

// Waiter registers handle as waiting on this channel, recorded the way
// ChanRecvYield does per spec.md §4.7 ("after recording the coroutine on
// the channel's waiter set").
func (c *Channel) Waiter(h objmodel.Handle) {
	c.payload.Waiters = append(c.payload.Waiters, h)
}
