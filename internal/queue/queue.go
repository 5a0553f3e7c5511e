// Package queue provides the unbounded FIFO used to hand targets between the
// primary loop and the tracker pool.
package queue

import (
	"context"
	"sync"
	"time"
)

// Queue is an unbounded FIFO. Push never blocks; Pop blocks until an item is
// available, the timeout fires, or ctx is done. Each item is delivered to
// exactly one consumer.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	ready chan struct{}
}

func New[T any]() *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0, 16),
		ready: make(chan struct{}, 1),
	}
}

func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.signal()
}

// TryPop removes the head item without blocking.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	var zero T
	if len(q.items) == 0 {
		q.mu.Unlock()
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	more := len(q.items) > 0
	q.mu.Unlock()

	// hand the wakeup on so a second waiter sees the remaining items
	if more {
		q.signal()
	}
	return v, true
}

// Pop waits up to timeout for an item. ok is false on timeout or cancellation.
func (q *Queue[T]) Pop(ctx context.Context, timeout time.Duration) (v T, ok bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if v, ok = q.TryPop(); ok {
			return v, true
		}
		select {
		case <-q.ready:
		case <-timer.C:
			return v, false
		case <-ctx.Done():
			return v, false
		}
	}
}

// Drain removes and returns every pending item.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = make([]T, 0, 16)
	return out
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
