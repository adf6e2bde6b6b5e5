package core

import "lockbox/protocol"

// CommandQueueSize is the number of outbound codes the queue holds
const CommandQueueSize = 8

// CommandQueue is the fixed-capacity FIFO of outbound bus codes.
// Producers may run in interrupt or main-loop context; the consumer is the
// bus shift handler. Each operation holds the critical section only for the
// index and slot update.
type CommandQueue struct {
	buf  [CommandQueueSize]protocol.Code
	head uint32 // Total codes enqueued
	tail uint32 // Total codes dequeued
}

// Enqueue appends c. It reports whether the queue was empty beforehand and
// returns ErrBusy without blocking when the queue already holds
// CommandQueueSize entries.
func (q *CommandQueue) Enqueue(c protocol.Code) (wasEmpty bool, err error) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if q.head-q.tail == CommandQueueSize {
		return false, ErrBusy
	}
	wasEmpty = q.head == q.tail
	q.buf[q.head%CommandQueueSize] = c
	q.head++
	return wasEmpty, nil
}

// Dequeue removes the oldest code
func (q *CommandQueue) Dequeue() (protocol.Code, bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if q.head == q.tail {
		return 0, false
	}
	c := q.buf[q.tail%CommandQueueSize]
	q.tail++
	return c, true
}

// IsEmpty reports whether no codes are waiting
func (q *CommandQueue) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of codes waiting
func (q *CommandQueue) Len() int {
	state := disableInterrupts()
	n := q.head - q.tail
	restoreInterrupts(state)
	return int(n)
}
