package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MikeSquared-Agency/vibecheck/internal/anthropic"
)

const llmTimeout = 30 * time.Second

// completer is the subset of the Anthropic client the LLM scorer needs.
type completer interface {
	Complete(ctx context.Context, system string, messages []anthropic.Message, maxTokens int) (string, error)
}

type llmResponse struct {
	Compound *float64 `json:"compound"`
}

// LLM scores messages by asking a language model for a compound polarity.
// Successful scores are memoized per text so identical messages always score
// the same; failures score neutral and are retried on the next call.
type LLM struct {
	llm    completer
	logger *slog.Logger
	group  singleflight.Group

	mu    sync.RWMutex
	cache map[string]float64
}

func NewLLM(llm *anthropic.Client, logger *slog.Logger) *LLM {
	return newLLM(llm, logger)
}

func newLLM(llm completer, logger *slog.Logger) *LLM {
	return &LLM{
		llm:    llm,
		logger: logger,
		cache:  make(map[string]float64),
	}
}

// Polarity returns the model's compound score for text, or 0 when it cannot be obtained.
func (s *LLM) Polarity(text string) float64 {
	return s.PolarityContext(context.Background(), text)
}

// PolarityContext is Polarity bounded by ctx. A caller that gives up gets 0; the
// shared model call keeps running for up to llmTimeout so its score can still be
// memoized for other callers.
func (s *LLM) PolarityContext(ctx context.Context, text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	s.mu.RLock()
	score, ok := s.cache[text]
	s.mu.RUnlock()
	if ok {
		return score
	}

	ch := s.group.DoChan(text, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), llmTimeout)
		defer cancel()

		score, err := s.score(callCtx, text)
		if err != nil {
			return 0.0, err
		}

		s.mu.Lock()
		s.cache[text] = score
		s.mu.Unlock()
		return score, nil
	})

	select {
	case <-ctx.Done():
		return 0
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn("sentiment scoring failed, using neutral", "error", res.Err, "text_len", len(text))
			return 0
		}
		return res.Val.(float64)
	}
}

func (s *LLM) score(ctx context.Context, text string) (float64, error) {
	messages := []anthropic.Message{
		{Role: "user", Content: fmt.Sprintf(userPrompt, text)},
	}

	raw, err := s.llm.Complete(ctx, systemPrompt, messages, 64)
	if err != nil {
		return 0, fmt.Errorf("llm sentiment: %w", err)
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err != nil {
		return 0, fmt.Errorf("parse sentiment: %w", err)
	}
	if resp.Compound == nil {
		return 0, fmt.Errorf("parse sentiment: missing compound in %q", raw)
	}
	return Clamp(*resp.Compound), nil
}
