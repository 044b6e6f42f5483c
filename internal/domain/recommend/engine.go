package recommend

import (
	"context"

	"github.com/algomate/insights/internal/domain/dedupe"
	"github.com/algomate/insights/pkg/metrics"
)

// DefaultLimit caps the number of recommendations returned per invocation.
const DefaultLimit = 6

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLimit sets the maximum number of recommendations returned.
func WithLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.limit = limit
		}
	}
}

// WithRules replaces the default rule set. Evaluation order follows slice
// order.
func WithRules(rules []Rule) Option {
	return func(e *Engine) {
		if len(rules) > 0 {
			e.rules = rules
		}
	}
}

// Engine evaluates the rules in their fixed order and truncates the
// concatenated result. It holds no per-invocation state; Generate is
// deterministic given identical input.
type Engine struct {
	limit int
	rules []Rule
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		limit: DefaultLimit,
		rules: defaultRules(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Limit returns the configured output cap.
func (e *Engine) Limit() int {
	return e.limit
}

// Generate runs every rule in order, concatenates their emissions, drops
// duplicates by (type, title) identity, and truncates to the limit. Later
// rules are dropped first when the limit is exceeded; output is never
// reordered by priority. Zero firings yield an empty, non-nil slice by
// contract so the caller can render its own fallback.
func (e *Engine) Generate(ctx context.Context, in Input) []Recommendation {
	out := make([]Recommendation, 0, e.limit)
	seen := dedupe.NewInMemoryDeduper(dedupe.WithInitialCapacity(e.limit))
	dropped := 0

	for _, rule := range e.rules {
		for _, rec := range rule.Evaluate(in) {
			if seen.SeenAndRecord(ctx, rec.Identity()) {
				dropped++
				continue
			}
			metrics.RecordRuleFired(rule.Name())
			out = append(out, rec)
		}
	}

	if len(out) > e.limit {
		dropped += len(out) - e.limit
		out = out[:e.limit]
	}

	metrics.RecordRecommendationsDropped(dropped)
	return out
}
