package snapshot

// Option applies a configuration option to the ShardedStore.
type Option func(*ShardedStore)

// WithShardCount sets the number of shards in the store.
func WithShardCount(count int) Option {
	return func(s *ShardedStore) {
		if count > 0 {
			s.shardCount = count
		}
	}
}
