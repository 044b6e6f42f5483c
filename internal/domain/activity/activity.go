// Package activity converts sparse timestamped events into a dense daily
// calendar over a fixed trailing window and computes streak and summary
// statistics from it.
//
// The calendar is an ordered slice indexed by day offset from the window
// start, never a date-string map, so no locale or timezone formatting can
// leak into the aggregation itself. All date math happens in UTC.
package activity

import (
	"time"

	"github.com/algomate/insights/internal/domain/model"
)

// DefaultWindowDays is the trailing window length. Both boundary dates are
// inclusive, so the produced calendar has DefaultWindowDays+1 entries.
const DefaultWindowDays = 365

// Level thresholds bucket a daily count into an intensity level 0-4.
// These are a fixed contract shared with the rendering layer, not tunable.
const (
	levelOneMin   = 1
	levelTwoMin   = 2
	levelThreeMin = 5
	levelFourMin  = 10
	maxLevel      = 4
)

// Event is the raw input type for the aggregator.
type Event = model.ActivityEvent

// Day is one calendar entry. Date is an ISO calendar date (yyyy-mm-dd, UTC);
// exactly one entry exists per date in the window.
type Day struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Streaks carries the two streak metrics. Longest is always >= Current.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Summary aggregates a calendar into display statistics.
type Summary struct {
	TotalDaysActive  int     `json:"total_days_active"`
	MaxDailyActivity int     `json:"max_daily_activity"`
	AvgDailyActivity float64 `json:"avg_daily_activity"`
	Streaks          Streaks `json:"streaks"`
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWindowDays sets the trailing window length in days.
func WithWindowDays(days int) Option {
	return func(a *Aggregator) {
		if days > 0 {
			a.windowDays = days
		}
	}
}

// Aggregator builds daily activity calendars. It holds no state between
// calls; two calls with identical input produce identical output.
type Aggregator struct {
	windowDays int
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		windowDays: DefaultWindowDays,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WindowDays returns the configured trailing window length.
func (a *Aggregator) WindowDays() int {
	return a.windowDays
}

// BuildCalendar returns one Day per calendar date from windowEnd minus the
// window length through windowEnd, both inclusive, sorted ascending with
// zero-filled counts. Events outside the window are ignored, not an error.
func (a *Aggregator) BuildCalendar(events []Event, windowEnd time.Time) []Day {
	start := truncateUTC(windowEnd).AddDate(0, 0, -a.windowDays)

	counts := make([]int, a.windowDays+1)
	for _, e := range events {
		offset := dayOffset(start, e.Timestamp)
		if offset < 0 || offset >= len(counts) {
			continue
		}
		counts[offset]++
	}

	days := make([]Day, len(counts))
	for i, count := range counts {
		days[i] = Day{
			Date:  start.AddDate(0, 0, i).Format("2006-01-02"),
			Count: count,
			Level: LevelFor(count),
		}
	}
	return days
}

// LevelFor buckets a daily count into an intensity level 0-4.
func LevelFor(count int) int {
	switch {
	case count >= levelFourMin:
		return maxLevel
	case count >= levelThreeMin:
		return 3
	case count >= levelTwoMin:
		return 2
	case count >= levelOneMin:
		return 1
	default:
		return 0
	}
}

// CurrentStreak scans from the most recent day backward and counts
// consecutive days with activity. A zero count on the most recent day
// yields zero regardless of earlier history.
func CurrentStreak(days []Day) int {
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Count == 0 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak scans forward once, tracking the maximum run of
// consecutive active days. The first maximal run wins ties.
func LongestStreak(days []Day) int {
	longest, run := 0, 0
	for _, d := range days {
		if d.Count > 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// StreaksOf computes both streak metrics for a calendar.
func StreaksOf(days []Day) Streaks {
	return Streaks{
		Current: CurrentStreak(days),
		Longest: LongestStreak(days),
	}
}

// Summarize derives display statistics from a calendar. An empty calendar
// is ErrEmptyCalendar: the average would divide by zero and a silent NaN
// must never propagate downstream.
func Summarize(days []Day) (Summary, error) {
	if len(days) == 0 {
		return Summary{}, ErrEmptyCalendar
	}

	total := 0
	active := 0
	maxCount := 0
	for _, d := range days {
		total += d.Count
		if d.Count > 0 {
			active++
		}
		if d.Count > maxCount {
			maxCount = d.Count
		}
	}

	return Summary{
		TotalDaysActive:  active,
		MaxDailyActivity: maxCount,
		AvgDailyActivity: float64(total) / float64(len(days)),
		Streaks:          StreaksOf(days),
	}, nil
}

// InWindowCount returns how many of the given events land inside the
// calendar, i.e. the sum of all day counts.
func InWindowCount(days []Day) int {
	total := 0
	for _, d := range days {
		total += d.Count
	}
	return total
}

// truncateUTC drops the time-of-day part in UTC.
func truncateUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// dayOffset returns the whole-day distance of t from the window start.
func dayOffset(start time.Time, t time.Time) int {
	return int(truncateUTC(t).Sub(start) / (24 * time.Hour))
}
