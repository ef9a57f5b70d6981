// Package stats aggregates parsed chat records into per-author engagement and sentiment figures.
package stats

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/MikeSquared-Agency/vibecheck/internal/chatlog"
	"github.com/MikeSquared-Agency/vibecheck/internal/sentiment"
)

// VibeWindow is the number of most recent messages per author that feed the vibe score.
const VibeWindow = 500

// AuthorStats is the aggregate for one author over a single analysis run.
type AuthorStats struct {
	Author       string  `json:"author"`
	MessageCount int     `json:"message_count"`
	VibeScore    float64 `json:"vibe_score"`
}

// authorMessages holds one author's messages in file order.
type authorMessages struct {
	author   string
	messages []string
}

// Aggregate builds one AuthorStats per distinct author, in order of first appearance.
func Aggregate(records []chatlog.Record, scorer sentiment.Scorer) []AuthorStats {
	out, _ := AggregateConcurrent(context.Background(), records, scorer, 1)
	return out
}

// AggregateConcurrent is Aggregate with authors scored on up to workers goroutines.
// The result order matches Aggregate. It fails only when ctx is done before every
// author has been scored, in which case the partial result is discarded.
func AggregateConcurrent(ctx context.Context, records []chatlog.Record, scorer sentiment.Scorer, workers int) ([]AuthorStats, error) {
	groups := groupByAuthor(records)
	out := make([]AuthorStats, len(groups))

	if workers <= 1 {
		for i, grp := range groups {
			s, err := summarize(ctx, grp, scorer)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, grp := range groups {
		g.Go(func() error {
			s, err := summarize(gctx, grp, scorer)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A deadline that fires after the last message was scored still fails the run.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func groupByAuthor(records []chatlog.Record) []*authorMessages {
	index := make(map[string]*authorMessages)
	var groups []*authorMessages
	for _, r := range records {
		g, ok := index[r.Author]
		if !ok {
			g = &authorMessages{author: r.Author}
			index[r.Author] = g
			groups = append(groups, g)
		}
		g.messages = append(g.messages, r.Message)
	}
	return groups
}

func summarize(ctx context.Context, g *authorMessages, scorer sentiment.Scorer) (AuthorStats, error) {
	vibe, err := vibeScore(ctx, g.messages, scorer)
	if err != nil {
		return AuthorStats{}, err
	}
	return AuthorStats{
		Author:       g.author,
		MessageCount: len(g.messages),
		VibeScore:    vibe,
	}, nil
}

// vibeScore averages the polarity of the last VibeWindow messages. ctx is checked
// before every message so a slow scorer cannot outlive the run.
func vibeScore(ctx context.Context, messages []string, scorer sentiment.Scorer) (float64, error) {
	if len(messages) > VibeWindow {
		messages = messages[len(messages)-VibeWindow:]
	}
	if len(messages) == 0 {
		return 0, nil
	}

	scores := make([]float64, len(messages))
	for i, m := range messages {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		scores[i] = sentiment.Clamp(sentiment.PolarityContext(ctx, scorer, m))
	}
	return sentiment.Clamp(stat.Mean(scores, nil)), nil
}

// Counts returns each author's message count, in the same order.
func Counts(authors []AuthorStats) []float64 {
	counts := make([]float64, len(authors))
	for i, a := range authors {
		counts[i] = float64(a.MessageCount)
	}
	return counts
}
