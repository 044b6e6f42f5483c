// Package batch provides the bounded payload queue and derivation worker
// pool used to process many users' payloads concurrently. Each derivation
// is independent; the pipeline only fans work out and in.
package batch

import (
	"context"
	"sync"

	"github.com/algomate/insights/internal/domain/model"
	"github.com/algomate/insights/pkg/metrics"
)

// defaultQueueCapacity bounds the queue when not configured.
const defaultQueueCapacity = 1024

// Payload is the job type flowing through the queue.
type Payload = model.Payload

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a payload to the queue.
	// Returns false if the queue is full or closed and the payload was dropped.
	Enqueue(ctx context.Context, p Payload) bool

	// Dequeue returns a channel that receives payloads as they become
	// available. The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Payload

	// Len returns the current number of queued payloads.
	Len(ctx context.Context) int

	// Close stops the queue. After closing, no new payloads can be enqueued.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	payloads chan Payload
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...QueueOption) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.payloads = make(chan Payload, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)

	return q
}

// Enqueue adds a payload to the queue without blocking.
func (q *InMemoryQueue) Enqueue(_ context.Context, p Payload) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueDrop()
		return false
	}

	select {
	case q.payloads <- p:
		q.updateGauges()
		return true
	default:
		metrics.RecordQueueDrop()
		return false
	}
}

// Dequeue returns the receive channel backing the queue.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Payload {
	return q.payloads
}

// Len returns the current number of queued payloads.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.payloads)
}

// Close stops the queue. Payloads already queued remain readable until the
// channel drains.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.closed = true
	close(q.payloads)
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) updateGauges() {
	size := len(q.payloads)
	metrics.UpdateQueueSize(size)
	if q.capacity > 0 {
		metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	}
}
