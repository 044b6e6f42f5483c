// Package snapshot defines the derived-snapshot store interface and its
// in-memory implementation. A snapshot is the calendar and summary computed
// for one user on one platform, kept as an opaque value for the display
// layer. The store is process-local memory only; durability belongs to a
// different layer entirely.
package snapshot

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/algomate/insights/internal/domain/activity"
	"github.com/algomate/insights/pkg/metrics"
)

// defaultShardCount is the number of map shards when not configured.
const defaultShardCount = 8

// Snapshot is the stored value, keyed by user identity and platform name.
type Snapshot struct {
	UserID    string            `json:"user_id"`
	Platform  string            `json:"platform"`
	Calendar  []activity.Day    `json:"calendar"`
	Summary   activity.Summary  `json:"summary"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store provides read/write access to derived snapshots.
type Store interface {
	// Put stores or replaces the snapshot for its user and platform.
	Put(ctx context.Context, snap Snapshot) error

	// Get returns the snapshot for a user and platform.
	// Returns ErrNotFound if none has been stored.
	Get(ctx context.Context, userID, platform string) (Snapshot, error)

	// Count returns the number of snapshots held.
	Count(ctx context.Context) int
}

type shard struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// ShardedStore implements Store with hash-sharded in-memory maps, so
// concurrent derivations for different users rarely contend on one lock.
type ShardedStore struct {
	shards     []*shard
	shardCount int
}

// NewShardedStore creates a store with configuration options.
func NewShardedStore(opts ...Option) *ShardedStore {
	s := &ShardedStore{
		shardCount: defaultShardCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{snapshots: make(map[string]Snapshot)}
	}

	metrics.UpdateSnapshotShards(s.shardCount)
	metrics.UpdateSnapshotCount(0)

	return s
}

// Put stores or replaces the snapshot for its user and platform. The
// calendar slice is copied so later caller mutations cannot reach the store.
func (s *ShardedStore) Put(ctx context.Context, snap Snapshot) error {
	if snap.UserID == "" || snap.Platform == "" {
		return ErrInvalidKey
	}

	cal := make([]activity.Day, len(snap.Calendar))
	copy(cal, snap.Calendar)
	snap.Calendar = cal

	key := snap.UserID + "/" + snap.Platform
	sh := s.shardFor(key)

	sh.mu.Lock()
	sh.snapshots[key] = snap
	sh.mu.Unlock()

	metrics.RecordSnapshotWrite()
	metrics.UpdateSnapshotCount(s.Count(ctx))
	return nil
}

// Get returns the snapshot for a user and platform.
func (s *ShardedStore) Get(_ context.Context, userID, platform string) (Snapshot, error) {
	if userID == "" || platform == "" {
		return Snapshot{}, ErrInvalidKey
	}

	key := userID + "/" + platform
	sh := s.shardFor(key)

	sh.mu.RLock()
	snap, ok := sh.snapshots[key]
	sh.mu.RUnlock()

	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

// Count returns the number of snapshots across all shards.
func (s *ShardedStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.snapshots)
		sh.mu.RUnlock()
	}
	return total
}

func (s *ShardedStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[int(h.Sum32())%s.shardCount]
}
