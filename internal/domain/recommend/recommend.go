// Package recommend evaluates an ordered set of independent rules against
// extracted signals and raw statistics, producing a prioritized,
// de-duplicated list of coaching recommendations.
package recommend

import (
	"time"

	"github.com/algomate/insights/internal/domain/model"
	"github.com/algomate/insights/internal/domain/signals"
)

// Type classifies what a recommendation asks the user to do.
type Type string

// Recommendation types.
const (
	TypeSkill        Type = "skill"
	TypePractice     Type = "practice"
	TypeContest      Type = "contest"
	TypeConsistency  Type = "consistency"
	TypeOptimization Type = "optimization"
)

// Priority is a display-emphasis class fixed per rule. It never affects
// emission order.
type Priority string

// Recommendation priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is an immutable value object. Identity for de-duplication
// is the combination of Type and Title.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        Type     `json:"type"`
	Priority    Priority `json:"priority"`
	ActionText  string   `json:"action_text"`
	ActionURL   string   `json:"action_url,omitempty"`
}

// Identity returns the de-duplication key for the recommendation.
func (r Recommendation) Identity() string {
	return string(r.Type) + "|" + r.Title
}

// Input bundles everything the rules may inspect. Now is the reference
// instant for recency guards; it is part of the input, so the engine stays
// deterministic for identical inputs.
type Input struct {
	Stats     model.Stats
	Signals   signals.Set
	Contests  []model.Contest
	Languages []model.LanguageStat
	Now       time.Time
}

// Rule is one independently evaluable recommendation rule. Evaluate is
// side-effect free and returns zero or more recommendations; only the
// weak-topic rule ever returns more than one.
type Rule interface {
	Name() string
	Evaluate(in Input) []Recommendation
}

// ruleFunc adapts a plain function to the Rule interface.
type ruleFunc struct {
	name string
	fn   func(in Input) []Recommendation
}

func (r ruleFunc) Name() string { return r.name }

func (r ruleFunc) Evaluate(in Input) []Recommendation { return r.fn(in) }
