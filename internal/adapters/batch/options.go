package batch

import (
	"github.com/algomate/insights/pkg/logger"
)

// QueueOption applies a configuration option to the InMemoryQueue.
type QueueOption func(*InMemoryQueue)

// WithCapacity bounds the number of queued payloads.
func WithCapacity(capacity int) QueueOption {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// PoolOption applies a configuration option to the Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of derivation workers.
func WithWorkers(count int) PoolOption {
	return func(p *Pool) {
		if count > 0 {
			p.workers = count
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(log logger.Logger) PoolOption {
	return func(p *Pool) {
		if log != nil {
			p.logger = log
		}
	}
}
