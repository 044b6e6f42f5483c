package model_test

import (
	"errors"
	"testing"

	"github.com/algomate/insights/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validPayload() model.Payload {
	return model.Payload{
		Profile: model.Profile{Username: "gopher", Platform: "leetcode"},
		Stats: model.Stats{
			TotalSolved: 100, EasySolved: 50, MediumSolved: 40, HardSolved: 10,
		},
		Languages: []model.LanguageStat{{Language: "Go", ProblemsSolved: 100}},
		Topics:    []model.TopicStat{{Topic: "Greedy", ProblemsSolved: 12}},
	}
}

func TestPayloadValidate(t *testing.T) {
	Convey("Given a well-formed payload", t, func() {
		p := validPayload()

		Convey("Then validation should pass", func() {
			So(p.Validate(), ShouldBeNil)
		})
	})

	Convey("Given structural defects", t, func() {
		cases := []struct {
			about  string
			mutate func(*model.Payload)
		}{
			{"a blank username", func(p *model.Payload) { p.Profile.Username = "  " }},
			{"a blank platform", func(p *model.Payload) { p.Profile.Platform = "" }},
			{"a negative total", func(p *model.Payload) { p.Stats.TotalSolved = -1 }},
			{"a negative hard count", func(p *model.Payload) { p.Stats.HardSolved = -3 }},
			{"difficulty counts exceeding the total", func(p *model.Payload) { p.Stats.EasySolved = 95 }},
			{"a negative language count", func(p *model.Payload) { p.Languages[0].ProblemsSolved = -1 }},
			{"a blank language name", func(p *model.Payload) { p.Languages[0].Language = "" }},
			{"a negative topic count", func(p *model.Payload) { p.Topics[0].ProblemsSolved = -5 }},
		}

		for _, tc := range cases {
			Convey("When the payload has "+tc.about, func() {
				p := validPayload()
				tc.mutate(&p)
				err := p.Validate()

				Convey("Then validation should reject it as invalid input", func() {
					So(err, ShouldNotBeNil)
					So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
				})
			})
		}
	})

	Convey("Given soft irregularities", t, func() {
		Convey("When topics are unscored and submissions lack runtimes", func() {
			p := validPayload()
			p.Topics = append(p.Topics, model.TopicStat{Topic: "Heap", ProblemsSolved: 4})
			p.Submissions = []model.Submission{{Title: "Two Sum", Status: model.StatusAccepted}}

			Convey("Then validation should still pass", func() {
				So(p.Validate(), ShouldBeNil)
			})
		})
	})
}

func TestSubmissionAccepted(t *testing.T) {
	Convey("Given submissions with different verdicts", t, func() {
		Convey("Then only the accepted verdict string should count", func() {
			So(model.Submission{Status: model.StatusAccepted}.Accepted(), ShouldBeTrue)
			So(model.Submission{Status: "Wrong Answer"}.Accepted(), ShouldBeFalse)
			So(model.Submission{Status: "accepted"}.Accepted(), ShouldBeFalse)
		})
	})
}
