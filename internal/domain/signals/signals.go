// Package signals extracts typed feature summaries from inbound platform
// records. Every extractor is a pure function: nothing is mutated, no clock
// is read, and invalid numeric situations resolve to defined neutral values
// (zero ratios, zero momentum) rather than errors or NaN.
package signals

import (
	"math"
	"time"

	"github.com/algomate/insights/internal/domain/activity"
	"github.com/algomate/insights/internal/domain/model"
)

// Extraction constants.
const (
	// DefaultFastRuntimeMS is the runtime at or under which a submission
	// counts as fast.
	DefaultFastRuntimeMS = 100

	// momentumWindowDays is the trailing slice of the calendar that feeds
	// the momentum signal.
	momentumWindowDays = 7

	// recentSubmissionDays bounds the recency feature of the submission
	// pattern signal.
	recentSubmissionDays = 7

	// Derived mastery scoring: saturation point for topic solve volume and
	// the split between volume and difficulty-mix contributions.
	masterySaturationSolves = 30
	masteryVolumeWeight     = 0.6
	masteryMixWeight        = 0.4
	masteryScale            = 100.0
)

// TopicMastery summarizes proficiency on one topic. Topic names are unique
// per report; input order is preserved.
type TopicMastery struct {
	Topic          string  `json:"topic"`
	ProblemsSolved int     `json:"problems_solved"`
	MasteryScore   float64 `json:"mastery_score"`
}

// SubmissionPattern carries recency and velocity features of the recent
// submission list.
type SubmissionPattern struct {
	TotalRecent      int     `json:"total_recent"`
	LastWeekCount    int     `json:"last_week_count"`
	AcceptedRatio    float64 `json:"accepted_ratio"`
	FastRuntimeRatio float64 `json:"fast_runtime_ratio"`
	RuntimeSamples   int     `json:"runtime_samples"`
}

// DifficultyProgression reports the difficulty mix of everything solved.
type DifficultyProgression struct {
	TotalSolved int     `json:"total_solved"`
	EasyRatio   float64 `json:"easy_ratio"`
	MediumRatio float64 `json:"medium_ratio"`
	HardRatio   float64 `json:"hard_ratio"`
}

// CodingMomentum wraps the streak metrics with a trailing-week activity
// count taken from the calendar.
type CodingMomentum struct {
	ActiveDaysLastWeek int              `json:"active_days_last_week"`
	Streaks            activity.Streaks `json:"streaks"`
}

// Set bundles all four extracted signals for the rule engine.
type Set struct {
	Topics     []TopicMastery        `json:"topics"`
	Pattern    SubmissionPattern     `json:"pattern"`
	Difficulty DifficultyProgression `json:"difficulty"`
	Momentum   CodingMomentum        `json:"momentum"`
}

// Topics passes through per-topic solve counts and mastery scores in input
// order. Scores are clamped into [0,100]; a topic that has solves but no
// upstream score gets a derived weighted solved-ratio score. Blank topic
// names and duplicate topics are dropped.
func Topics(stats []model.TopicStat) []TopicMastery {
	out := make([]TopicMastery, 0, len(stats))
	seen := make(map[string]struct{}, len(stats))
	for _, t := range stats {
		if t.Topic == "" {
			continue
		}
		if _, dup := seen[t.Topic]; dup {
			continue
		}
		seen[t.Topic] = struct{}{}

		solved := t.ProblemsSolved
		if solved < 0 {
			solved = 0
		}
		score := t.MasteryScore
		if score == 0 && solved > 0 {
			score = deriveMastery(t)
		}
		out = append(out, TopicMastery{
			Topic:          t.Topic,
			ProblemsSolved: solved,
			MasteryScore:   clamp(score, 0, masteryScale),
		})
	}
	return out
}

// deriveMastery scores a topic from its solve volume and difficulty mix
// when the upstream record carries no score. Volume saturates at
// masterySaturationSolves; the mix term weighs advanced solves three times
// a fundamental one.
func deriveMastery(t model.TopicStat) float64 {
	volume := math.Min(1, float64(t.ProblemsSolved)/masterySaturationSolves)

	tiered := t.FundamentalSolved + t.IntermediateSolved + t.AdvancedSolved
	mix := 0.0
	if tiered > 0 {
		weighted := float64(t.FundamentalSolved) + 2*float64(t.IntermediateSolved) + 3*float64(t.AdvancedSolved)
		mix = weighted / (3 * float64(tiered))
	}

	return masteryScale * (masteryVolumeWeight*volume + masteryMixWeight*mix)
}

// Submissions computes recency and frequency features relative to ref.
// Submissions without a runtime are excluded from the fast-runtime ratio,
// never counted as slow and never a crash. A non-positive fastRuntimeMS
// falls back to DefaultFastRuntimeMS.
func Submissions(subs []model.Submission, ref time.Time, fastRuntimeMS int) SubmissionPattern {
	if fastRuntimeMS <= 0 {
		fastRuntimeMS = DefaultFastRuntimeMS
	}
	weekStart := ref.AddDate(0, 0, -recentSubmissionDays)

	p := SubmissionPattern{TotalRecent: len(subs)}
	accepted := 0
	fast := 0
	for _, s := range subs {
		if s.Timestamp.After(weekStart) && !s.Timestamp.After(ref) {
			p.LastWeekCount++
		}
		if s.Accepted() {
			accepted++
		}
		if s.RuntimeMS != nil {
			p.RuntimeSamples++
			if *s.RuntimeMS <= fastRuntimeMS {
				fast++
			}
		}
	}

	if p.TotalRecent > 0 {
		p.AcceptedRatio = float64(accepted) / float64(p.TotalRecent)
	}
	if p.RuntimeSamples > 0 {
		p.FastRuntimeRatio = float64(fast) / float64(p.RuntimeSamples)
	}
	return p
}

// Difficulty derives the easy/medium/hard mix. A zero total resolves to
// all-zero ratios by contract.
func Difficulty(stats model.Stats) DifficultyProgression {
	d := DifficultyProgression{TotalSolved: stats.TotalSolved}
	if stats.TotalSolved <= 0 {
		return d
	}
	total := float64(stats.TotalSolved)
	d.EasyRatio = clamp(float64(stats.EasySolved)/total, 0, 1)
	d.MediumRatio = clamp(float64(stats.MediumSolved)/total, 0, 1)
	d.HardRatio = clamp(float64(stats.HardSolved)/total, 0, 1)
	return d
}

// Momentum restricts the calendar to its most recent seven entries for the
// active-day count and reports the full-window streak metrics alongside.
func Momentum(days []activity.Day) CodingMomentum {
	m := CodingMomentum{Streaks: activity.StreaksOf(days)}

	start := len(days) - momentumWindowDays
	if start < 0 {
		start = 0
	}
	for _, d := range days[start:] {
		if d.Count > 0 {
			m.ActiveDaysLastWeek++
		}
	}
	return m
}

// Extract runs all four extractors over one payload and its calendar.
func Extract(p model.Payload, days []activity.Day, ref time.Time, fastRuntimeMS int) Set {
	return Set{
		Topics:     Topics(p.Topics),
		Pattern:    Submissions(p.Submissions, ref, fastRuntimeMS),
		Difficulty: Difficulty(p.Stats),
		Momentum:   Momentum(days),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
