package recommend_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/algomate/insights/internal/domain/activity"
	"github.com/algomate/insights/internal/domain/model"
	"github.com/algomate/insights/internal/domain/recommend"
	"github.com/algomate/insights/internal/domain/signals"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

// strongInput is a profile no rule should fire for.
func strongInput() recommend.Input {
	return recommend.Input{
		Stats: model.Stats{
			TotalSolved: 250, EasySolved: 80, MediumSolved: 120, HardSolved: 50,
			ContestRating: 1900,
		},
		Signals: signals.Set{
			Topics: []signals.TopicMastery{
				{Topic: "Dynamic Programming", ProblemsSolved: 40, MasteryScore: 80},
				{Topic: "Graph Theory", ProblemsSolved: 30, MasteryScore: 65},
			},
			Pattern: signals.SubmissionPattern{
				TotalRecent: 20, LastWeekCount: 10, AcceptedRatio: 0.8,
				FastRuntimeRatio: 0.9, RuntimeSamples: 15,
			},
			Difficulty: signals.DifficultyProgression{
				TotalSolved: 250, EasyRatio: 0.32, MediumRatio: 0.48, HardRatio: 0.2,
			},
			Momentum: signals.CodingMomentum{
				ActiveDaysLastWeek: 5,
				Streaks:            activity.Streaks{Current: 5, Longest: 20},
			},
		},
		Contests: []model.Contest{
			{Title: "Weekly Contest 410", StartTime: now.AddDate(0, 0, -10)},
		},
		Languages: []model.LanguageStat{
			{Language: "Go", ProblemsSolved: 150},
			{Language: "Python", ProblemsSolved: 100},
		},
		Now: now,
	}
}

// strugglingInput trips every rule at once.
func strugglingInput() recommend.Input {
	return recommend.Input{
		Stats: model.Stats{TotalSolved: 60, EasySolved: 40, MediumSolved: 15, HardSolved: 5},
		Signals: signals.Set{
			Topics: []signals.TopicMastery{
				{Topic: "Backtracking", ProblemsSolved: 4, MasteryScore: 20},
				{Topic: "Heap", ProblemsSolved: 2, MasteryScore: 10},
				{Topic: "Greedy", ProblemsSolved: 9, MasteryScore: 90},
			},
			Pattern: signals.SubmissionPattern{
				TotalRecent: 10, FastRuntimeRatio: 0.2, RuntimeSamples: 6,
			},
			Difficulty: signals.DifficultyProgression{
				TotalSolved: 60, EasyRatio: 40.0 / 60.0, MediumRatio: 15.0 / 60.0, HardRatio: 5.0 / 60.0,
			},
			Momentum: signals.CodingMomentum{ActiveDaysLastWeek: 1},
		},
		Languages: []model.LanguageStat{{Language: "Python", ProblemsSolved: 60}},
		Now:       now,
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	Convey("Given the default engine", t, func() {
		engine := recommend.NewEngine()

		Convey("When a strong profile comes in", func() {
			out := engine.Generate(ctx, strongInput())

			Convey("Then the output should be empty but never nil", func() {
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When every rule fires at once", func() {
			out := engine.Generate(ctx, strugglingInput())

			Convey("Then the output should truncate to the default limit", func() {
				So(out, ShouldHaveLength, recommend.DefaultLimit)
			})

			Convey("And rule order should decide what survives, not priority", func() {
				So(out[0].Type, ShouldEqual, recommend.TypeSkill)
				So(out[0].Title, ShouldEqual, "Master Heap")
				So(out[1].Title, ShouldEqual, "Master Backtracking")
				So(out[2].Title, ShouldEqual, "Step up to medium problems")
				So(out[3].Title, ShouldEqual, "Build a daily coding habit")
				So(out[4].Title, ShouldEqual, "Enter your first contest")
				So(out[5].Title, ShouldEqual, "Try a second language")
			})
		})

		Convey("When the same input is evaluated twice", func() {
			first := engine.Generate(ctx, strugglingInput())
			second := engine.Generate(ctx, strugglingInput())

			Convey("Then the output should be identical", func() {
				So(reflect.DeepEqual(first, second), ShouldBeTrue)
			})
		})
	})

	Convey("Given an engine with a smaller limit", t, func() {
		engine := recommend.NewEngine(recommend.WithLimit(3))

		Convey("When every rule fires", func() {
			out := engine.Generate(ctx, strugglingInput())

			Convey("Then the limit should be honored", func() {
				So(out, ShouldHaveLength, 3)
			})
		})
	})

	Convey("Given two rules emitting the same type and title", t, func() {
		dup := recommend.Recommendation{
			Title: "Do the thing", Type: recommend.TypePractice, Priority: recommend.PriorityLow,
		}
		engine := recommend.NewEngine(recommend.WithRules([]recommend.Rule{
			stubRule{name: "first", recs: []recommend.Recommendation{dup}},
			stubRule{name: "second", recs: []recommend.Recommendation{dup}},
		}))

		Convey("When generating", func() {
			out := engine.Generate(ctx, recommend.Input{Now: now})

			Convey("Then only the first emission should survive", func() {
				So(out, ShouldHaveLength, 1)
			})
		})
	})
}

type stubRule struct {
	name string
	recs []recommend.Recommendation
}

func (s stubRule) Name() string { return s.name }

func (s stubRule) Evaluate(recommend.Input) []recommend.Recommendation { return s.recs }

func TestWeakTopicRule(t *testing.T) {
	ctx := context.Background()

	Convey("Given three topics scored 10, 20, and 90", t, func() {
		in := strongInput()
		in.Signals.Topics = []signals.TopicMastery{
			{Topic: "Sliding Window", ProblemsSolved: 5, MasteryScore: 20},
			{Topic: "Bit Manipulation", ProblemsSolved: 3, MasteryScore: 10},
			{Topic: "Hash Table", ProblemsSolved: 40, MasteryScore: 90},
		}
		engine := recommend.NewEngine()

		Convey("When generating", func() {
			out := engine.Generate(ctx, in)

			Convey("Then the two weakest should emit in ascending score order", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Title, ShouldEqual, "Master Bit Manipulation")
				So(out[1].Title, ShouldEqual, "Master Sliding Window")
				So(out[0].Priority, ShouldEqual, recommend.PriorityHigh)
			})

			Convey("And the practice link should carry the slugified topic", func() {
				So(out[0].ActionURL, ShouldEqual, "https://leetcode.com/tag/bit-manipulation/")
			})
		})
	})

	Convey("Given a weak topic whose name needs URL escaping", t, func() {
		in := strongInput()
		in.Signals.Topics = []signals.TopicMastery{
			{Topic: "I/O Handling", ProblemsSolved: 2, MasteryScore: 5},
		}

		Convey("When generating", func() {
			out := recommend.NewEngine().Generate(ctx, in)

			Convey("Then the substituted value should be escaped", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].ActionURL, ShouldEqual, "https://leetcode.com/tag/i%2Fo-handling/")
			})
		})
	})

	Convey("Given a weak score with zero solves", t, func() {
		in := strongInput()
		in.Signals.Topics = []signals.TopicMastery{
			{Topic: "Tries", ProblemsSolved: 0, MasteryScore: 0},
		}

		Convey("When generating", func() {
			out := recommend.NewEngine().Generate(ctx, in)

			Convey("Then nothing should fire for untouched topics", func() {
				So(out, ShouldBeEmpty)
			})
		})
	})
}

func TestDifficultyAndContestRules(t *testing.T) {
	ctx := context.Background()

	Convey("Given a large solved count with almost no hard problems", t, func() {
		in := strongInput()
		in.Stats = model.Stats{TotalSolved: 250, EasySolved: 100, MediumSolved: 135, HardSolved: 15}
		in.Signals.Difficulty = signals.DifficultyProgression{
			TotalSolved: 250, EasyRatio: 0.4, MediumRatio: 0.54, HardRatio: 15.0 / 250.0,
		}

		Convey("When generating", func() {
			out := recommend.NewEngine().Generate(ctx, in)

			Convey("Then the hard-problem nudge should fire", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Title, ShouldEqual, "Mix in hard problems")
				So(out[0].Type, ShouldEqual, recommend.TypePractice)
			})
		})
	})

	Convey("Given a contest history that went quiet", t, func() {
		in := strongInput()
		in.Contests = []model.Contest{
			{Title: "Weekly Contest 380", StartTime: now.AddDate(0, 0, -200)},
			{Title: "Weekly Contest 395", StartTime: now.AddDate(0, 0, -45)},
		}

		Convey("When generating", func() {
			out := recommend.NewEngine().Generate(ctx, in)

			Convey("Then the comeback nudge should cite the latest contest", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Title, ShouldEqual, "Get back into contests")
				So(out[0].Description, ShouldContainSubstring, "45 days ago")
			})
		})
	})

	Convey("Given a contest inside the inactivity window", t, func() {
		in := strongInput()
		in.Contests = []model.Contest{
			{Title: "Weekly Contest 411", StartTime: now.AddDate(0, 0, -29)},
		}

		Convey("When generating", func() {
			out := recommend.NewEngine().Generate(ctx, in)

			Convey("Then no contest nudge should fire", func() {
				So(out, ShouldBeEmpty)
			})
		})
	})
}

func TestStudyPlanRule(t *testing.T) {
	ctx := context.Background()

	Convey("Given a user still in the foundation stage", t, func() {
		in := strongInput()
		in.Stats = model.Stats{TotalSolved: 20, EasySolved: 15, MediumSolved: 5}
		in.Signals.Difficulty = signals.DifficultyProgression{
			TotalSolved: 20, EasyRatio: 0.75, MediumRatio: 0.25,
		}

		Convey("When generating", func() {
			out := recommend.NewEngine().Generate(ctx, in)

			Convey("Then the foundation plan should be among the results", func() {
				titles := make([]string, 0, len(out))
				for _, r := range out {
					titles = append(titles, r.Title)
				}
				So(titles, ShouldContain, "Start the foundation study plan")
			})
		})
	})

	Convey("Given a user in the interview stage", t, func() {
		in := strongInput()
		in.Stats.TotalSolved = 150
		in.Signals.Difficulty.TotalSolved = 150
		in.Signals.Difficulty.EasyRatio = 0.3
		in.Signals.Difficulty.HardRatio = 0.2

		Convey("When generating", func() {
			out := recommend.NewEngine().Generate(ctx, in)

			Convey("Then the interview plan should fire", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Title, ShouldEqual, "Follow the interview study plan")
				So(out[0].Priority, ShouldEqual, recommend.PriorityLow)
			})
		})
	})
}
