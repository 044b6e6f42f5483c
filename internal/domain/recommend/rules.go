package recommend

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Rule guard thresholds. Fixed contract values, not tunable per call.
const (
	weakMasteryThreshold   = 30.0
	maxWeakTopics          = 2
	easySkewRatio          = 0.6
	hardRatioFloor         = 0.1
	minSolvedForSkew       = 20
	minSolvedForHardNudge  = 100
	minActiveDaysPerWeek   = 3
	contestInactivityDays  = 30
	minSolvedForLangNudge  = 50
	fastRuntimeRatioFloor  = 0.5
	minRuntimeSamples      = 5
	foundationStageSolves  = 50
	interviewStageSolves   = 200
	daysPerWeek            = 7
	hoursPerDay            = 24
)

// defaultRules returns the rule set in its fixed, documented evaluation
// order. Output order of the engine follows this order, never priority.
func defaultRules() []Rule {
	return []Rule{
		ruleFunc{name: "weak_topics", fn: weakTopics},
		ruleFunc{name: "difficulty_skew", fn: difficultySkew},
		ruleFunc{name: "weekly_consistency", fn: weeklyConsistency},
		ruleFunc{name: "contest_inactivity", fn: contestInactivity},
		ruleFunc{name: "language_diversity", fn: languageDiversity},
		ruleFunc{name: "runtime_outliers", fn: runtimeOutliers},
		ruleFunc{name: "study_plan", fn: studyPlan},
	}
}

// weakTopics emits up to maxWeakTopics recommendations for the
// lowest-mastery topics that have solves recorded. Ties break by input
// order (stable sort).
func weakTopics(in Input) []Recommendation {
	qualifying := make([]int, 0, len(in.Signals.Topics))
	for i, t := range in.Signals.Topics {
		if t.MasteryScore < weakMasteryThreshold && t.ProblemsSolved > 0 {
			qualifying = append(qualifying, i)
		}
	}
	sort.SliceStable(qualifying, func(a, b int) bool {
		return in.Signals.Topics[qualifying[a]].MasteryScore < in.Signals.Topics[qualifying[b]].MasteryScore
	})
	if len(qualifying) > maxWeakTopics {
		qualifying = qualifying[:maxWeakTopics]
	}

	out := make([]Recommendation, 0, len(qualifying))
	for _, i := range qualifying {
		t := in.Signals.Topics[i]
		out = append(out, Recommendation{
			Title: fmt.Sprintf("Master %s", t.Topic),
			Description: fmt.Sprintf(
				"Your mastery of %s sits at %.0f/100 over %d solved problems. A focused block of practice here pays off fastest.",
				t.Topic, t.MasteryScore, t.ProblemsSolved,
			),
			Type:       TypeSkill,
			Priority:   PriorityHigh,
			ActionText: fmt.Sprintf("Practice %s problems", t.Topic),
			ActionURL:  topicURL(t.Topic),
		})
	}
	return out
}

// difficultySkew fires once when the solved mix leans too easy, or when a
// large solved count still contains almost no hard problems.
func difficultySkew(in Input) []Recommendation {
	d := in.Signals.Difficulty
	switch {
	case d.TotalSolved >= minSolvedForSkew && d.EasyRatio > easySkewRatio:
		return []Recommendation{{
			Title: "Step up to medium problems",
			Description: fmt.Sprintf(
				"%.0f%% of your %d solved problems are easy. Shifting the mix toward medium difficulty builds interview-ready depth.",
				d.EasyRatio*100, d.TotalSolved,
			),
			Type:       TypePractice,
			Priority:   PriorityMedium,
			ActionText: "Pick a medium problem",
			ActionURL:  "https://leetcode.com/problemset/?difficulty=MEDIUM",
		}}
	case d.TotalSolved >= minSolvedForHardNudge && d.HardRatio < hardRatioFloor:
		return []Recommendation{{
			Title: "Mix in hard problems",
			Description: fmt.Sprintf(
				"Only %.0f%% of your %d solved problems are hard. At your volume, one hard problem a week keeps progression going.",
				d.HardRatio*100, d.TotalSolved,
			),
			Type:       TypePractice,
			Priority:   PriorityMedium,
			ActionText: "Pick a hard problem",
			ActionURL:  "https://leetcode.com/problemset/?difficulty=HARD",
		}}
	}
	return nil
}

// weeklyConsistency fires when fewer than minActiveDaysPerWeek of the last
// seven days saw activity.
func weeklyConsistency(in Input) []Recommendation {
	m := in.Signals.Momentum
	if m.ActiveDaysLastWeek >= minActiveDaysPerWeek {
		return nil
	}
	return []Recommendation{{
		Title: "Build a daily coding habit",
		Description: fmt.Sprintf(
			"You were active %d of the last %d days and your current streak is %d. Short daily sessions beat weekend marathons for retention.",
			m.ActiveDaysLastWeek, daysPerWeek, m.Streaks.Current,
		),
		Type:       TypeConsistency,
		Priority:   PriorityHigh,
		ActionText: "Solve one problem today",
	}}
}

// contestInactivity fires when the user solves problems but has not entered
// a contest within the inactivity window.
func contestInactivity(in Input) []Recommendation {
	if in.Stats.TotalSolved == 0 {
		return nil
	}

	var latest time.Time
	for _, c := range in.Contests {
		if c.StartTime.After(latest) {
			latest = c.StartTime
		}
	}

	if latest.IsZero() {
		return []Recommendation{{
			Title:       "Enter your first contest",
			Description: fmt.Sprintf("You have solved %d problems but never competed. Contests add time pressure that practice alone cannot.", in.Stats.TotalSolved),
			Type:        TypeContest,
			Priority:    PriorityMedium,
			ActionText:  "Register for the next contest",
			ActionURL:   "https://leetcode.com/contest/",
		}}
	}

	idle := int(in.Now.Sub(latest) / (hoursPerDay * time.Hour))
	if idle <= contestInactivityDays {
		return nil
	}
	return []Recommendation{{
		Title:       "Get back into contests",
		Description: fmt.Sprintf("Your last contest was %d days ago. Regular contests keep your rating of %.0f honest.", idle, in.Stats.ContestRating),
		Type:        TypeContest,
		Priority:    PriorityMedium,
		ActionText:  "Register for the next contest",
		ActionURL:   "https://leetcode.com/contest/",
	}}
}

// languageDiversity fires for heavy single-language users.
func languageDiversity(in Input) []Recommendation {
	if len(in.Languages) != 1 {
		return nil
	}
	only := in.Languages[0]
	if only.ProblemsSolved < minSolvedForLangNudge {
		return nil
	}
	return []Recommendation{{
		Title: "Try a second language",
		Description: fmt.Sprintf(
			"All %d of your solved problems are in %s. A second language sharpens the algorithm behind the syntax.",
			only.ProblemsSolved, only.Language,
		),
		Type:       TypeSkill,
		Priority:   PriorityLow,
		ActionText: "Re-solve an old problem in a new language",
	}}
}

// runtimeOutliers fires when enough runtime samples exist and most of them
// are slow relative to the fast-runtime threshold.
func runtimeOutliers(in Input) []Recommendation {
	p := in.Signals.Pattern
	if p.RuntimeSamples < minRuntimeSamples || p.FastRuntimeRatio >= fastRuntimeRatioFloor {
		return nil
	}
	return []Recommendation{{
		Title: "Tighten your runtimes",
		Description: fmt.Sprintf(
			"Only %.0f%% of your %d recent timed submissions ran fast. Revisit the slow ones and look for a better complexity class.",
			p.FastRuntimeRatio*100, p.RuntimeSamples,
		),
		Type:       TypeOptimization,
		Priority:   PriorityMedium,
		ActionText: "Review your slowest accepted solutions",
	}}
}

// studyPlan fires for users who have not yet reached the advanced stage,
// pointing at the plan matching their solve volume.
func studyPlan(in Input) []Recommendation {
	switch {
	case in.Stats.TotalSolved < foundationStageSolves:
		return []Recommendation{{
			Title:       "Start the foundation study plan",
			Description: fmt.Sprintf("With %d problems solved you are in the foundation stage. A structured plan covers the core patterns in order.", in.Stats.TotalSolved),
			Type:        TypePractice,
			Priority:    PriorityLow,
			ActionText:  "Open the study plan",
			ActionURL:   "https://leetcode.com/studyplan/leetcode-75/",
		}}
	case in.Stats.TotalSolved < interviewStageSolves:
		return []Recommendation{{
			Title:       "Follow the interview study plan",
			Description: fmt.Sprintf("At %d problems solved you are past the basics. An interview-focused plan fills the remaining gaps.", in.Stats.TotalSolved),
			Type:        TypePractice,
			Priority:    PriorityLow,
			ActionText:  "Open the study plan",
			ActionURL:   "https://leetcode.com/studyplan/top-interview-150/",
		}}
	default:
		return nil
	}
}

// topicURL builds the external practice link for a topic. The substituted
// value is slugified and URL-escaped; topic names come from a third-party
// API and must never reach a URL raw.
func topicURL(topic string) string {
	slug := strings.ToLower(strings.TrimSpace(topic))
	slug = strings.ReplaceAll(slug, " ", "-")
	return "https://leetcode.com/tag/" + url.PathEscape(slug) + "/"
}
