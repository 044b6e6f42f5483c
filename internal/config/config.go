// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, optional YAML file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// WindowDays sets the trailing activity-calendar window length.
	WindowDays int `koanf:"window_days"`

	// RecommendationLimit caps recommendations returned per derivation.
	RecommendationLimit int `koanf:"recommendation_limit"`

	// FastRuntimeMS is the runtime at or under which a submission counts
	// as fast for the submission-pattern signal.
	FastRuntimeMS int `koanf:"fast_runtime_ms"`

	// WorkerCount sets the number of batch derivation workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory payload queue.
	QueueSize int `koanf:"queue_size"`

	// SnapshotShardCount configures the snapshot store sharding.
	SnapshotShardCount int `koanf:"snapshot_shard_count"`

	// InputPath points at a payload JSON file or a directory of them.
	InputPath string `koanf:"input_path"`

	// OutputDir receives one report JSON file per derived payload.
	// Empty means write single-payload reports to stdout.
	OutputDir string `koanf:"output_dir"`

	// DumpMetrics prints the gathered Prometheus metrics after a run.
	DumpMetrics bool `koanf:"dump_metrics"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		WindowDays:          365,
		RecommendationLimit: 6,
		FastRuntimeMS:       100,
		WorkerCount:         runtime.NumCPU(),
		QueueSize:           1024,
		SnapshotShardCount:  8,
		InputPath:           "",
		OutputDir:           "",
		DumpMetrics:         false,
	}
}
