// Package mailbox implements the unbounded FIFO message queue that feeds the streaming
// interpolator's single consumer goroutine.
package mailbox

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Push after the queue has been closed.
var ErrClosed = errors.New("mailbox closed")

// minCapacity is the smallest backing array allocated for a queue.
const minCapacity = 16

// growthFactor is the multiplier applied when the ring is full.
const growthFactor = 2

// Queue is a growable ring buffer of messages.
//
// Any number of goroutines may Push; Push never blocks. A single consumer drains the
// queue with Pop and waits on Ready when it is empty. Messages come out in the order
// their Push calls acquired the lock.
type Queue[T any] struct {
	data     []T
	size     int
	readPos  int
	writePos int
	closed   bool
	ready    chan struct{}
	mu       sync.Mutex
}

// New creates a queue with room for capacity messages before it has to grow.
func New[T any](capacity int) *Queue[T] {
	if capacity < minCapacity {
		capacity = minCapacity
	}

	return &Queue[T]{
		data:  make([]T, capacity),
		ready: make(chan struct{}, 1),
	}
}

// Push appends v to the queue. It fails with ErrClosed once the queue is closed.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.push(v)
	return nil
}

// PushAndClose appends a final message and closes the queue in one step, so nothing can
// be queued behind it.
func (q *Queue[T]) PushAndClose(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.push(v)
	q.closed = true
	return nil
}

// Close stops further pushes. Messages already queued can still be popped.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		q.signal()
	}
}

// Pop removes the oldest message. ok is false when the queue is empty.
func (q *Queue[T]) Pop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == 0 {
		return v, false
	}

	var zero T
	v = q.data[q.readPos]
	q.data[q.readPos] = zero
	q.readPos = (q.readPos + 1) % len(q.data)
	q.size--
	return v, true
}

// Ready returns a channel that receives a value after a Push or Close. A consumer that
// found the queue empty waits on it and then calls Pop again.
func (q *Queue[T]) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of queued messages.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Closed reports whether the queue refuses new messages.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue[T]) push(v T) {
	if q.size == len(q.data) {
		q.grow()
	}

	q.data[q.writePos] = v
	q.writePos = (q.writePos + 1) % len(q.data)
	q.size++
	q.signal()
}

// signal wakes the consumer without blocking; one pending wakeup is enough because the
// consumer drains everything before waiting again.
func (q *Queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// grow doubles the ring, keeping messages in order.
func (q *Queue[T]) grow() {
	newData := make([]T, len(q.data)*growthFactor)

	if q.size > 0 {
		if q.readPos < q.writePos {
			copy(newData, q.data[q.readPos:q.writePos])
		} else {
			n := copy(newData, q.data[q.readPos:])
			copy(newData[n:], q.data[:q.writePos])
		}
	}

	q.data = newData
	q.readPos = 0
	q.writePos = q.size
}
