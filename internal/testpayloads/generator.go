// Package testpayloads generates synthetic platform payloads for exercising
// the derivation pipelines without touching any real API. Each payload is a
// complete, valid inbound envelope for one imaginary user.
package testpayloads

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/algomate/insights/internal/domain/model"
	"github.com/algomate/insights/pkg/logger"
	"github.com/algomate/insights/pkg/metrics"
)

// Archetype performance profiles. Each shapes how active and how skewed a
// synthetic user looks, so generated batches cover every rule guard.
const (
	caseGrinder = iota
	caseWeekendWarrior
	caseDormant
	caseContestSpecialist
	caseNewcomer
	archetypeCount
)

// Generation ranges.
const (
	grinderActiveChance  = 0.85
	weekendActiveChance  = 0.9
	dormantActiveChance  = 0.05
	specialistChance     = 0.5
	newcomerChance       = 0.2
	historyDays          = 365
	maxEventsPerDay      = 4
	recentSubmissions    = 20
	runtimeKnownChance   = 0.8
	payloadFilePerm      = 0o600
	payloadDirPerm       = 0o750
)

var topicPool = []string{
	"Dynamic Programming", "Graph Theory", "Binary Search", "Two Pointers",
	"Sliding Window", "Backtracking", "Greedy", "Hash Table", "Heap",
	"Bit Manipulation",
}

var languagePool = []string{"Go", "Python", "C++", "Java", "Rust"}

// Generator produces synthetic payloads from a seeded random source.
type Generator struct {
	cfg *Config
	rng *rand.Rand
}

// NewGenerator creates a generator for the given config.
func NewGenerator(cfg *Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // synthetic fixtures need reproducibility, not security
	}
}

// Generate produces the configured number of payloads.
func (g *Generator) Generate(ctx context.Context) ([]model.Payload, error) {
	payloads := make([]model.Payload, 0, g.cfg.NumPayloads)
	for i := 0; i < g.cfg.NumPayloads; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("payload generation canceled: %w", ctx.Err())
		default:
		}

		p := g.payload(i % archetypeCount)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("generated invalid payload %d: %w", i, err)
		}
		payloads = append(payloads, p)
		metrics.RecordPayloadGenerated()
	}
	return payloads, nil
}

// WriteFiles generates payloads and writes one JSON file per user into the
// configured output directory.
func (g *Generator) WriteFiles(ctx context.Context) (int, error) {
	payloads, err := g.Generate(ctx)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(g.cfg.OutputDir, payloadDirPerm); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	for _, p := range payloads {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("marshal payload for %s: %w", p.Profile.Username, err)
		}
		name := filepath.Join(g.cfg.OutputDir, p.Profile.Username+".json")
		if err := os.WriteFile(name, data, payloadFilePerm); err != nil {
			return 0, fmt.Errorf("write %s: %w", name, err)
		}
	}

	logger.Get().Info(ctx, "wrote synthetic payloads",
		logger.Int("count", len(payloads)),
		logger.String("dir", g.cfg.OutputDir),
	)
	return len(payloads), nil
}

func (g *Generator) payload(archetype int) model.Payload {
	username := "user-" + uuid.NewString()[:8]
	now := time.Now().UTC()

	events := g.events(archetype, now)
	easy, medium, hard := g.difficultySplit(archetype)
	total := easy + medium + hard

	return model.Payload{
		Profile: model.Profile{
			Username: username,
			Platform: g.cfg.Platform,
			Ranking:  1 + g.rng.Intn(500000),
		},
		Stats: model.Stats{
			TotalSolved:      total,
			EasySolved:       easy,
			MediumSolved:     medium,
			HardSolved:       hard,
			AcceptanceRate:   0.4 + g.rng.Float64()*0.5,
			ContestRating:    g.contestRating(archetype),
			ContestsAttended: g.contestCount(archetype),
		},
		Submissions: g.submissions(now),
		Contests:    g.contests(archetype, now),
		Events:      events,
		Languages:   g.languages(archetype, total),
		Badges:      g.badges(archetype, now),
		Topics:      g.topics(total),
	}
}

// events shapes daily activity over the trailing year by archetype.
func (g *Generator) events(archetype int, now time.Time) []model.ActivityEvent {
	var events []model.ActivityEvent
	for d := 0; d < historyDays; d++ {
		day := now.AddDate(0, 0, -d)
		active := false
		switch archetype {
		case caseGrinder:
			active = g.rng.Float64() < grinderActiveChance
		case caseWeekendWarrior:
			wd := day.Weekday()
			active = (wd == time.Saturday || wd == time.Sunday) && g.rng.Float64() < weekendActiveChance
		case caseDormant:
			active = g.rng.Float64() < dormantActiveChance
		case caseContestSpecialist:
			active = g.rng.Float64() < specialistChance
		default:
			active = d < 30 && g.rng.Float64() < newcomerChance
		}
		if !active {
			continue
		}
		n := 1 + g.rng.Intn(maxEventsPerDay)
		for i := 0; i < n; i++ {
			events = append(events, model.ActivityEvent{
				Timestamp: day.Add(time.Duration(g.rng.Intn(24)) * time.Hour),
			})
		}
	}
	return events
}

func (g *Generator) difficultySplit(archetype int) (easy, medium, hard int) {
	switch archetype {
	case caseGrinder:
		return 80 + g.rng.Intn(40), 120 + g.rng.Intn(60), 30 + g.rng.Intn(30)
	case caseWeekendWarrior:
		return 60 + g.rng.Intn(30), 30 + g.rng.Intn(20), g.rng.Intn(5)
	case caseDormant:
		return 20 + g.rng.Intn(20), 5 + g.rng.Intn(10), g.rng.Intn(3)
	case caseContestSpecialist:
		return 40 + g.rng.Intn(20), 90 + g.rng.Intn(40), 40 + g.rng.Intn(30)
	default:
		return 5 + g.rng.Intn(15), g.rng.Intn(5), 0
	}
}

func (g *Generator) contestRating(archetype int) float64 {
	if archetype == caseContestSpecialist {
		return 1800 + g.rng.Float64()*600
	}
	return 1200 + g.rng.Float64()*400
}

func (g *Generator) contestCount(archetype int) int {
	switch archetype {
	case caseContestSpecialist:
		return 20 + g.rng.Intn(40)
	case caseNewcomer:
		return 0
	default:
		return g.rng.Intn(10)
	}
}

func (g *Generator) submissions(now time.Time) []model.Submission {
	subs := make([]model.Submission, 0, recentSubmissions)
	for i := 0; i < recentSubmissions; i++ {
		s := model.Submission{
			Title:     fmt.Sprintf("Problem %d", 1+g.rng.Intn(3000)),
			Status:    model.StatusAccepted,
			Language:  languagePool[g.rng.Intn(len(languagePool))],
			Timestamp: now.AddDate(0, 0, -g.rng.Intn(14)),
		}
		if g.rng.Float64() > 0.8 {
			s.Status = "Wrong Answer"
		}
		if g.rng.Float64() < runtimeKnownChance {
			runtime := 20 + g.rng.Intn(400)
			s.RuntimeMS = &runtime
		}
		subs = append(subs, s)
	}
	return subs
}

func (g *Generator) contests(archetype int, now time.Time) []model.Contest {
	count := g.contestCount(archetype)
	contests := make([]model.Contest, 0, count)
	for i := 0; i < count; i++ {
		daysAgo := g.rng.Intn(historyDays)
		if archetype == caseContestSpecialist && i == 0 {
			daysAgo = g.rng.Intn(7) // specialists competed recently
		}
		contests = append(contests, model.Contest{
			Title:     fmt.Sprintf("Weekly Contest %d", 300+i),
			StartTime: now.AddDate(0, 0, -daysAgo),
			Rating:    g.contestRating(archetype),
			Rank:      1 + g.rng.Intn(10000),
		})
	}
	return contests
}

func (g *Generator) languages(archetype int, total int) []model.LanguageStat {
	if archetype == caseWeekendWarrior {
		// single-language heavy user triggers the diversity rule
		return []model.LanguageStat{{Language: "Python", ProblemsSolved: total}}
	}
	count := 1 + g.rng.Intn(3)
	langs := make([]model.LanguageStat, 0, count)
	remaining := total
	for i := 0; i < count; i++ {
		solved := remaining
		if i < count-1 && remaining > 0 {
			solved = g.rng.Intn(remaining + 1)
		}
		langs = append(langs, model.LanguageStat{
			Language:       languagePool[(g.rng.Intn(len(languagePool))+i)%len(languagePool)],
			ProblemsSolved: solved,
		})
		remaining -= solved
	}
	return langs
}

func (g *Generator) badges(archetype int, now time.Time) []model.Badge {
	if archetype == caseNewcomer {
		return nil
	}
	return []model.Badge{
		{Name: "Annual Badge", EarnedAt: now.AddDate(0, -g.rng.Intn(12), 0)},
	}
}

func (g *Generator) topics(total int) []model.TopicStat {
	count := 3 + g.rng.Intn(5)
	topics := make([]model.TopicStat, 0, count)
	for i := 0; i < count; i++ {
		solved := g.rng.Intn(total/2 + 1)
		topics = append(topics, model.TopicStat{
			Topic:              topicPool[(i*3+g.rng.Intn(3))%len(topicPool)],
			ProblemsSolved:     solved,
			MasteryScore:       g.rng.Float64() * 100,
			FundamentalSolved:  solved / 2,
			IntermediateSolved: solved / 3,
			AdvancedSolved:     solved - solved/2 - solved/3,
		})
	}
	return topics
}
