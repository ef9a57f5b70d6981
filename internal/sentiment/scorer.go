// Package sentiment provides compound polarity scorers for chat messages.
package sentiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/vibecheck/internal/anthropic"
)

// Scorer returns a compound polarity for a piece of text: -1 is most negative,
// 1 is most positive. Implementations must be safe for concurrent use and give
// identical text the same score, except that a backend which cannot reach its
// model scores that call neutral (0) and may succeed on a later call.
type Scorer interface {
	Polarity(text string) float64
}

// ContextScorer is a Scorer whose work can be cut short by the caller.
type ContextScorer interface {
	Scorer
	PolarityContext(ctx context.Context, text string) float64
}

// PolarityContext scores text, handing ctx to s when it is a ContextScorer.
func PolarityContext(ctx context.Context, s Scorer, text string) float64 {
	if cs, ok := s.(ContextScorer); ok {
		return cs.PolarityContext(ctx, text)
	}
	return s.Polarity(text)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Polarity(text string) float64 {
	return f(text)
}

const (
	BackendVader     = "vader"
	BackendAnthropic = "anthropic"
)

// New builds the scorer for the named backend. The anthropic backend requires llm.
func New(backend string, llm *anthropic.Client, logger *slog.Logger) (Scorer, error) {
	switch backend {
	case "", BackendVader:
		return NewVader(), nil
	case BackendAnthropic:
		if llm == nil {
			return nil, fmt.Errorf("sentiment backend %q requires an anthropic client", backend)
		}
		return NewLLM(llm, logger), nil
	default:
		return nil, fmt.Errorf("unknown sentiment backend %q", backend)
	}
}

// Clamp bounds a score to [-1, 1].
func Clamp(score float64) float64 {
	if score < -1.0 {
		return -1.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
