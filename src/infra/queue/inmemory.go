// Package queue implements the bounded, multi-producer multi-consumer FIFO
// that holds MissingTrack lookups pending a worker's attention.
package queue

import (
	"sync"

	"github.com/lrclib/lrclib-go/src/catalog"
)

// DefaultCapacity is the fixed bound spec.md §4.4 allows implementations to
// choose; entries beyond it are rejected rather than blocking the caller.
const DefaultCapacity = 10_000

// InMemoryQueue is a ring-buffer-backed FIFO of catalog.MissingTrack guarded
// by a single mutex. Push and Pop never block.
type InMemoryQueue struct {
	mu       sync.Mutex
	buf      []catalog.MissingTrack
	head     int
	size     int
	capacity int
}

// NewInMemoryQueue constructs a queue bounded at capacity. A non-positive
// capacity falls back to DefaultCapacity.
func NewInMemoryQueue(capacity int) *InMemoryQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryQueue{
		buf:      make([]catalog.MissingTrack, capacity),
		capacity: capacity,
	}
}

// Push appends item to the tail of the queue. It reports false without
// blocking if the queue is at capacity; the caller is expected to log and
// drop on overflow per spec.md §4.4.
func (q *InMemoryQueue) Push(item catalog.MissingTrack) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == q.capacity {
		return false
	}
	tail := (q.head + q.size) % q.capacity
	q.buf[tail] = item
	q.size++
	return true
}

// Pop removes and returns the item at the head of the queue. ok is false if
// the queue was empty.
func (q *InMemoryQueue) Pop() (item catalog.MissingTrack, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == 0 {
		return catalog.MissingTrack{}, false
	}
	item = q.buf[q.head]
	q.buf[q.head] = catalog.MissingTrack{}
	q.head = (q.head + 1) % q.capacity
	q.size--
	return item, true
}

// Len reports the number of items currently queued.
func (q *InMemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}
