package batch

import (
	"context"
	"runtime"
	"strconv"
	"sync"

	"github.com/algomate/insights/pkg/logger"
	"github.com/algomate/insights/pkg/metrics"
)

// Deriver runs one derivation for one payload. Implementations decide what
// happens to the result; the pool only reports whether the call failed.
type Deriver interface {
	Derive(ctx context.Context, p Payload) error
}

// Pool fans payloads from a queue out to derivation workers.
type Pool struct {
	queue   Queue
	deriver Deriver
	workers int

	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex

	logger logger.Logger
}

// NewPool creates a worker pool with configuration options.
func NewPool(queue Queue, deriver Deriver, opts ...PoolOption) *Pool {
	p := &Pool{
		queue:   queue,
		deriver: deriver,
		workers: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start launches the workers. Each worker drains the queue's dequeue
// channel until it closes or ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("batch")
	}
	p.started = true

	metrics.UpdateWorkerCount(p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, "worker-"+strconv.Itoa(i))
	}
}

// Wait blocks until every worker has exited. Close the queue first so the
// workers can drain and stop.
func (p *Pool) Wait() {
	p.wg.Wait()
	metrics.UpdateWorkerCount(0)
}

func (p *Pool) run(ctx context.Context, name string) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug(ctx, "worker stopping on context cancel", logger.String("worker", name))
			return
		case payload, ok := <-p.queue.Dequeue(ctx):
			if !ok {
				p.logger.Debug(ctx, "worker stopping on closed queue", logger.String("worker", name))
				return
			}
			metrics.UpdateQueueSize(p.queue.Len(ctx))
			if err := p.deriver.Derive(ctx, payload); err != nil {
				metrics.RecordWorkerError()
				p.logger.Warn(ctx, "derivation failed",
					logger.String("worker", name),
					logger.String("username", payload.Profile.Username),
					logger.String("platform", payload.Profile.Platform),
					logger.Error(err),
				)
			}
		}
	}
}
