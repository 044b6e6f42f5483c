// Package dedupe defines the interface for recommendation identity tracking.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen identities so the engine never emits two
// recommendations sharing one.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	Size() int64
}

// inMemoryDeduper implements Deduper with a plain map. The set lives for a
// single engine invocation, so there is no eviction.
type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
	size atomic.Int64
}

// Option applies a configuration option to the inMemoryDeduper.
type Option func(*inMemoryDeduper)

// WithInitialCapacity pre-sizes the identity map.
func WithInitialCapacity(n int) Option {
	return func(d *inMemoryDeduper) {
		if n > 0 {
			d.seen = make(map[string]struct{}, n)
		}
	}
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}
	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the current number of recorded identities.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
