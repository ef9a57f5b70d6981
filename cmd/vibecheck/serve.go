package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/vibecheck/internal/analyzer"
	"github.com/MikeSquared-Agency/vibecheck/internal/api"
	"github.com/MikeSquared-Agency/vibecheck/internal/config"
	"github.com/MikeSquared-Agency/vibecheck/internal/hermes"
	"github.com/MikeSquared-Agency/vibecheck/internal/processor"
	"github.com/MikeSquared-Agency/vibecheck/internal/slack"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg.LogLevel, os.Stdout)

	slog.Info("vibecheck starting", "port", cfg.Port, "scorer", cfg.SentimentBackend)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	scorer, err := buildScorer(cfg, cfg.SentimentBackend)
	if err != nil {
		return fmt.Errorf("sentiment scorer: %w", err)
	}
	a := analyzer.New(scorer, cfg.ScorerWorkers, slog.Default())

	// NATS/Hermes
	hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer hermesClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Slack is optional; reports are still published on the bus without it.
	var poster processor.ReportPoster
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		poster = slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	} else {
		slog.Warn("slack not configured, reports go to NATS only")
	}

	proc := processor.New(a, hermesClient, poster, slog.Default())

	if err := hermesClient.QueueSubscribe(hermes.SubjectAnalyzeRequested, hermes.QueueAnalyzers, proc.HandleAnalyzeRequested); err != nil {
		return fmt.Errorf("subscribe to analyze requests: %w", err)
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, a, int64(cfg.MaxUploadBytes))
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	if err := hermesClient.Publish(hermes.SubjectRegistered, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
		"scorer":    cfg.SentimentBackend,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("vibecheck ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}

	slog.Info("vibecheck stopped")
	return nil
}
