package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/vibecheck/internal/analyzer"
	"github.com/MikeSquared-Agency/vibecheck/internal/anthropic"
	"github.com/MikeSquared-Agency/vibecheck/internal/config"
	"github.com/MikeSquared-Agency/vibecheck/internal/sentiment"
)

var rootCmd = &cobra.Command{
	Use:   "vibecheck",
	Short: "vibecheck - group chat archetypes from WhatsApp exports",

	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and NATS analyze worker",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze an exported chat file and print the leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	jsonFlag   bool
	topFlag    int
	scorerFlag string
	onlyFlag   string
)

func init() {
	analyzeCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the full report as JSON")
	analyzeCmd.Flags().IntVar(&topFlag, "top", analyzer.LeaderboardSize, "Number of leaderboard rows to print (0 for all)")
	analyzeCmd.Flags().StringVar(&onlyFlag, "only", "", "Only list authors with this archetype: ghost, saint, menace, yapper or npc")
	analyzeCmd.Flags().StringVar(&scorerFlag, "scorer", "", "Sentiment backend: vader or anthropic (default from SENTIMENT_BACKEND)")
	rootCmd.AddCommand(serveCmd, analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildScorer wires the configured sentiment backend. The Anthropic client is
// only created when that backend is selected.
func buildScorer(cfg config.Config, backend string) (sentiment.Scorer, error) {
	var llm *anthropic.Client
	if backend == sentiment.BackendAnthropic {
		if cfg.AnthropicAPIKey == "" {
			return nil, errors.New("ANTHROPIC_API_KEY is required for the anthropic scorer")
		}
		llm = anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		slog.Info("anthropic client ready", "model", llm.Model())
	}
	return sentiment.New(backend, llm, slog.Default())
}

func setupLogging(level string, w io.Writer) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
