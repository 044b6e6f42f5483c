// Package model defines the inbound record types handed to the derivation
// core by the fetch layer. All records arrive already authenticated and
// deserialized; this package only checks them for structural consistency
// before any numeric computation runs.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Profile identifies a user on a single developer platform.
type Profile struct {
	Username    string `json:"username"`
	Platform    string `json:"platform"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Ranking     int    `json:"ranking,omitempty"`
}

// Stats carries aggregate solve statistics for a user.
type Stats struct {
	TotalSolved      int     `json:"total_solved"`
	EasySolved       int     `json:"easy_solved"`
	MediumSolved     int     `json:"medium_solved"`
	HardSolved       int     `json:"hard_solved"`
	AcceptanceRate   float64 `json:"acceptance_rate,omitempty"`
	ContestRating    float64 `json:"contest_rating,omitempty"`
	ContestsAttended int     `json:"contests_attended,omitempty"`
}

// Submission is a single recent submission. RuntimeMS is a pointer because
// the upstream API omits runtime for some verdicts; a nil value means
// "unknown" and is excluded from runtime-based ratios.
type Submission struct {
	Title     string    `json:"title"`
	TitleSlug string    `json:"title_slug,omitempty"`
	Status    string    `json:"status"`
	Language  string    `json:"language,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RuntimeMS *int      `json:"runtime_ms,omitempty"`
}

// StatusAccepted is the verdict string marking a passing submission.
const StatusAccepted = "Accepted"

// Accepted reports whether the submission passed.
func (s Submission) Accepted() bool {
	return s.Status == StatusAccepted
}

// Contest is one entry of a user's contest history.
type Contest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	Rating    float64   `json:"rating,omitempty"`
	Rank      int       `json:"rank,omitempty"`
}

// ActivityEvent is a raw timestamped activity marker (commit, submission,
// contest participation). Events may be unordered, duplicated, or outside
// the target window.
type ActivityEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// LanguageStat counts problems solved per programming language.
type LanguageStat struct {
	Language       string `json:"language"`
	ProblemsSolved int    `json:"problems_solved"`
}

// Badge is a platform achievement badge.
type Badge struct {
	Name     string    `json:"name"`
	Icon     string    `json:"icon,omitempty"`
	EarnedAt time.Time `json:"earned_at,omitempty"`
}

// TopicStat carries per-topic skill statistics. MasteryScore is supplied
// upstream on a 0-100 scale; zero with solves recorded means "not scored"
// and the extractor derives a score from the tier counts instead.
type TopicStat struct {
	Topic              string  `json:"topic"`
	ProblemsSolved     int     `json:"problems_solved"`
	MasteryScore       float64 `json:"mastery_score,omitempty"`
	FundamentalSolved  int     `json:"fundamental_solved,omitempty"`
	IntermediateSolved int     `json:"intermediate_solved,omitempty"`
	AdvancedSolved     int     `json:"advanced_solved,omitempty"`
}

// Payload is the complete inbound envelope for one user on one platform,
// mirroring what the fetch layer hands over in a single call.
type Payload struct {
	Profile     Profile         `json:"profile"`
	Stats       Stats           `json:"stats"`
	Submissions []Submission    `json:"submissions,omitempty"`
	Contests    []Contest       `json:"contests,omitempty"`
	Events      []ActivityEvent `json:"events,omitempty"`
	Languages   []LanguageStat  `json:"languages,omitempty"`
	Badges      []Badge         `json:"badges,omitempty"`
	Topics      []TopicStat     `json:"topics,omitempty"`
}

// Validate checks the payload for structural consistency. It rejects blank
// identities and negative counts; softer irregularities (unscored topics,
// missing runtimes) are resolved to neutral values by the extractors.
func (p *Payload) Validate() error {
	if strings.TrimSpace(p.Profile.Username) == "" {
		return fmt.Errorf("%w: profile username is blank", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Profile.Platform) == "" {
		return fmt.Errorf("%w: profile platform is blank", ErrInvalidInput)
	}
	if err := p.Stats.validate(); err != nil {
		return err
	}
	for i, l := range p.Languages {
		if l.ProblemsSolved < 0 {
			return fmt.Errorf("%w: language %q has negative solve count", ErrInvalidInput, l.Language)
		}
		if strings.TrimSpace(l.Language) == "" {
			return fmt.Errorf("%w: language entry %d has blank name", ErrInvalidInput, i)
		}
	}
	for _, t := range p.Topics {
		if t.ProblemsSolved < 0 {
			return fmt.Errorf("%w: topic %q has negative solve count", ErrInvalidInput, t.Topic)
		}
	}
	return nil
}

func (s Stats) validate() error {
	if s.TotalSolved < 0 || s.EasySolved < 0 || s.MediumSolved < 0 || s.HardSolved < 0 {
		return fmt.Errorf("%w: negative solve count in stats", ErrInvalidInput)
	}
	if s.EasySolved+s.MediumSolved+s.HardSolved > s.TotalSolved {
		return fmt.Errorf("%w: per-difficulty counts exceed total solved", ErrInvalidInput)
	}
	return nil
}
