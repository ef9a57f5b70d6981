// Package analyzer runs the parse, aggregate and classify pipeline over one chat export.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/vibecheck/internal/archetype"
	"github.com/MikeSquared-Agency/vibecheck/internal/chatlog"
	"github.com/MikeSquared-Agency/vibecheck/internal/sentiment"
	"github.com/MikeSquared-Agency/vibecheck/internal/stats"
)

// ErrNothingParsed means no line of the export matched the chat grammar.
var ErrNothingParsed = errors.New("could not parse chat export")

// NoDate is reported as the most active date when no timestamp parsed.
const NoDate = "N/A"

// LeaderboardSize is how many authors the leaderboard shows.
const LeaderboardSize = 100

// Report is the outcome of one analysis run.
type Report struct {
	ID             uuid.UUID           `json:"id"`
	GeneratedAt    time.Time           `json:"generated_at"`
	TotalMessages  int                 `json:"total_messages"`
	ActiveMembers  int                 `json:"active_members"`
	MostActiveDate string              `json:"most_active_date"`
	Authors        []archetype.Profile `json:"authors"`
}

// Leaderboard returns the n most active authors.
func (r *Report) Leaderboard(n int) []archetype.Profile {
	if n < 0 || n >= len(r.Authors) {
		return r.Authors
	}
	return r.Authors[:n]
}

// Counts tallies authors per archetype.
func (r *Report) Counts() map[archetype.Archetype]int {
	counts := make(map[archetype.Archetype]int)
	for _, a := range r.Authors {
		counts[a.Archetype]++
	}
	return counts
}

// Analyzer holds the sentiment capability used for every run. It keeps no state between runs.
type Analyzer struct {
	scorer  sentiment.Scorer
	workers int
	logger  *slog.Logger
}

// New creates an Analyzer. workers bounds how many authors are scored at once.
func New(scorer sentiment.Scorer, workers int, logger *slog.Logger) *Analyzer {
	return &Analyzer{scorer: scorer, workers: workers, logger: logger}
}

// Analyze parses raw and builds the report. It returns ErrNothingParsed when no
// line matched; callers should surface that as a parse failure.
func (a *Analyzer) Analyze(ctx context.Context, raw string) (*Report, error) {
	return a.AnalyzeRecords(ctx, chatlog.Parse(raw))
}

// AnalyzeRecords builds the report from already parsed records.
func (a *Analyzer) AnalyzeRecords(ctx context.Context, records []chatlog.Record) (*Report, error) {
	if len(records) == 0 {
		return nil, ErrNothingParsed
	}

	start := time.Now()
	authors, err := stats.AggregateConcurrent(ctx, records, a.scorer, a.workers)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	profiles := archetype.ClassifyAll(authors)
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].MessageCount > profiles[j].MessageCount
	})

	mostActive := NoDate
	if d, ok := stats.MostActiveDate(records); ok {
		mostActive = d.Format("2006-01-02")
	}

	report := &Report{
		ID:             uuid.New(),
		GeneratedAt:    time.Now().UTC(),
		TotalMessages:  len(records),
		ActiveMembers:  stats.DistinctAuthors(records),
		MostActiveDate: mostActive,
		Authors:        profiles,
	}

	a.logger.Info("analysis complete",
		"report_id", report.ID,
		"messages", report.TotalMessages,
		"authors", report.ActiveMembers,
		"most_active_date", report.MostActiveDate,
		"duration", time.Since(start),
	)
	return report, nil
}
