package sentiment

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/MikeSquared-Agency/vibecheck/internal/anthropic"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{"in range", 0.42, 0.42},
		{"upper bound", 1.0, 1.0},
		{"lower bound", -1.0, -1.0},
		{"above range", 1.7, 1.0},
		{"below range", -3.2, -1.0},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.score); got != tt.want {
				t.Errorf("Clamp(%f) = %f, want %f", tt.score, got, tt.want)
			}
		})
	}
}

func TestScorerFunc(t *testing.T) {
	var s Scorer = ScorerFunc(func(text string) float64 { return float64(len(text)) / 10 })
	if got := s.Polarity("hello"); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestNew_Backends(t *testing.T) {
	llm := anthropic.NewClient("k", "m")

	tests := []struct {
		name    string
		backend string
		llm     *anthropic.Client
		wantErr bool
	}{
		{"empty defaults to vader", "", nil, false},
		{"vader", BackendVader, nil, false},
		{"anthropic with client", BackendAnthropic, llm, false},
		{"anthropic without client", BackendAnthropic, nil, true},
		{"unknown", "textblob", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.backend, tt.llm, discardLogger())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s == nil {
				t.Fatal("expected scorer")
			}
		})
	}
}

func TestPolarityContext(t *testing.T) {
	plain := ScorerFunc(func(string) float64 { return -0.4 })
	if got := PolarityContext(context.Background(), plain, "x"); got != -0.4 {
		t.Errorf("plain scorer: got %f, want -0.4", got)
	}

	var _ ContextScorer = (*LLM)(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fc := &fakeCompleter{reply: func(string) (string, error) {
		return `{"compound": 0.8}`, nil
	}}
	s := newLLM(fc, discardLogger())
	// A cancelled caller may still race a fast reply, so only the bounds are fixed.
	if got := PolarityContext(ctx, s, "hello"); got != 0 && got != 0.8 {
		t.Errorf("cancelled context: got %f, want 0 or 0.8", got)
	}
}
