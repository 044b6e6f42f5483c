// Package app provides the core service that wires the derivation
// pipelines together: validate the payload, build the activity calendar,
// extract signals, generate recommendations, and hand the derived snapshot
// to the store.
package app

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/algomate/insights/internal/adapters/batch"
	"github.com/algomate/insights/internal/adapters/snapshot"
	"github.com/algomate/insights/internal/domain/activity"
	"github.com/algomate/insights/internal/domain/model"
	"github.com/algomate/insights/internal/domain/recommend"
	"github.com/algomate/insights/internal/domain/signals"
	"github.com/algomate/insights/pkg/logger"
	"github.com/algomate/insights/pkg/metrics"
)

// Report is the full derived output for one payload.
type Report struct {
	Username        string                        `json:"username"`
	Platform        string                        `json:"platform"`
	Calendar        []activity.Day                `json:"calendar"`
	Summary         activity.Summary              `json:"summary"`
	Signals         signals.Set                   `json:"signals"`
	Recommendations []recommend.Recommendation    `json:"recommendations"`
	GeneratedAt     time.Time                     `json:"generated_at"`
}

// Service implements the derivation pipelines over in-memory components.
type Service struct {
	mu sync.RWMutex

	// Core components
	aggregator *activity.Aggregator
	engine     *recommend.Engine
	snapshots  snapshot.Store

	// Configuration
	windowDays    int
	limit         int
	fastRuntimeMS int
	workerCount   int
	queueSize     int
	shardCount    int
	now           func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWindowDays sets the trailing calendar window length.
func WithWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// WithRecommendationLimit caps the recommendations returned per derivation.
func WithRecommendationLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithFastRuntimeThreshold sets the runtime (ms) under which a submission
// counts as fast.
func WithFastRuntimeThreshold(ms int) Option {
	return func(s *Service) {
		if ms > 0 {
			s.fastRuntimeMS = ms
		}
	}
}

// WithWorkerCount sets the number of batch derivation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the batch payload queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSnapshotShardCount configures the snapshot store sharding.
func WithSnapshotShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithClock injects the reference-time source. The domain packages never
// read a clock themselves; tests pin this to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		windowDays:    activity.DefaultWindowDays,
		limit:         recommend.DefaultLimit,
		fastRuntimeMS: signals.DefaultFastRuntimeMS,
		workerCount:   runtime.NumCPU(),
		queueSize:     1024,
		shardCount:    8,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.aggregator = activity.NewAggregator(
		activity.WithWindowDays(s.windowDays),
	)
	s.engine = recommend.NewEngine(
		recommend.WithLimit(s.limit),
	)
	s.snapshots = snapshot.NewShardedStore(
		snapshot.WithShardCount(s.shardCount),
	)

	s.started = true
	s.logger.Info(ctx, "insights service started",
		logger.Int("windowDays", s.windowDays),
		logger.Int("recommendationLimit", s.limit),
		logger.Int("workers", s.workerCount),
	)

	return nil
}

// Stop shuts the service down. All state is in-memory, so this only flips
// the started flag and logs.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "insights service stopped")
}

// Derive runs the full derivation for one payload: validate, build the
// calendar, summarize, extract signals, generate recommendations, and put
// the snapshot. The reference instant is resolved once per call.
func (s *Service) Derive(ctx context.Context, p model.Payload) (Report, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return Report{}, ErrNotStarted
	}

	if err := p.Validate(); err != nil {
		metrics.RecordDerivationError()
		return Report{}, fmt.Errorf("derive %s/%s: %w", p.Profile.Platform, p.Profile.Username, err)
	}

	start := time.Now()
	ref := s.now().UTC()

	calStart := time.Now()
	days := s.aggregator.BuildCalendar(p.Events, ref)
	metrics.RecordCalendarBuild(time.Since(calStart).Seconds())

	inWindow := activity.InWindowCount(days)
	metrics.RecordEventsAggregated(inWindow)
	metrics.RecordEventsOutOfWindow(len(p.Events) - inWindow)

	summary, err := activity.Summarize(days)
	if err != nil {
		metrics.RecordDerivationError()
		return Report{}, fmt.Errorf("derive %s/%s: %w", p.Profile.Platform, p.Profile.Username, err)
	}

	sig := signals.Extract(p, days, ref, s.fastRuntimeMS)

	recs := s.engine.Generate(ctx, recommend.Input{
		Stats:     p.Stats,
		Signals:   sig,
		Contests:  p.Contests,
		Languages: p.Languages,
		Now:       ref,
	})

	if err := s.snapshots.Put(ctx, snapshot.Snapshot{
		UserID:    p.Profile.Username,
		Platform:  p.Profile.Platform,
		Calendar:  days,
		Summary:   summary,
		UpdatedAt: ref,
	}); err != nil {
		return Report{}, fmt.Errorf("store snapshot %s/%s: %w", p.Profile.Platform, p.Profile.Username, err)
	}

	metrics.RecordDerivation(time.Since(start).Seconds())
	metrics.RecordRecommendationsEmitted(len(recs))

	s.logger.Debug(ctx, "derivation complete",
		logger.String("username", p.Profile.Username),
		logger.String("platform", p.Profile.Platform),
		logger.Int("activeDays", summary.TotalDaysActive),
		logger.Int("recommendations", len(recs)),
	)

	return Report{
		Username:        p.Profile.Username,
		Platform:        p.Profile.Platform,
		Calendar:        days,
		Summary:         summary,
		Signals:         sig,
		Recommendations: recs,
		GeneratedAt:     ref,
	}, nil
}

// Snapshot returns the stored derived snapshot for a user and platform.
func (s *Service) Snapshot(ctx context.Context, userID, platform string) (snapshot.Snapshot, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return snapshot.Snapshot{}, ErrNotStarted
	}
	return s.snapshots.Get(ctx, userID, platform)
}

// batchCollector adapts the Service to the batch.Deriver interface and
// collects reports as workers finish them.
type batchCollector struct {
	mu      sync.Mutex
	svc     *Service
	reports []Report
}

func (c *batchCollector) Derive(ctx context.Context, p batch.Payload) error {
	report, err := c.svc.Derive(ctx, p)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.reports = append(c.reports, report)
	c.mu.Unlock()
	return nil
}

// DeriveBatch derives reports for many payloads concurrently through the
// batch queue and worker pool. Payloads that fail validation are logged by
// the pool and skipped; the returned slice holds the successful reports.
func (s *Service) DeriveBatch(ctx context.Context, payloads []model.Payload) ([]Report, error) {
	s.mu.RLock()
	started := s.started
	workers := s.workerCount
	queueSize := s.queueSize
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	if queueSize < len(payloads) {
		queueSize = len(payloads)
	}
	queue := batch.NewInMemoryQueue(batch.WithCapacity(queueSize))
	collector := &batchCollector{svc: s}
	pool := batch.NewPool(queue, collector,
		batch.WithWorkers(workers),
		batch.WithLogger(s.logger),
	)

	pool.Start(ctx)
	for _, p := range payloads {
		if !queue.Enqueue(ctx, p) {
			s.logger.Warn(ctx, "payload dropped by full queue",
				logger.String("username", p.Profile.Username),
			)
		}
	}
	_ = queue.Close()
	pool.Wait()

	return collector.reports, nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"windowDays":  s.windowDays,
		"limit":       s.limit,
		"workerCount": s.workerCount,
	}
	if s.started {
		stats["snapshots"] = s.snapshots.Count(ctx)
	}
	return stats
}
