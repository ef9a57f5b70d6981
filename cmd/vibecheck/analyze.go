package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/vibecheck/internal/analyzer"
	"github.com/MikeSquared-Agency/vibecheck/internal/archetype"
	"github.com/MikeSquared-Agency/vibecheck/internal/chatlog"
	"github.com/MikeSquared-Agency/vibecheck/internal/config"
)

var archetypeOrder = []archetype.Archetype{
	archetype.Yapper,
	archetype.Saint,
	archetype.Menace,
	archetype.NPC,
	archetype.Ghost,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg.LogLevel, cmd.ErrOrStderr())

	var only archetype.Archetype
	if onlyFlag != "" {
		a, err := archetype.ParseArchetype(onlyFlag)
		if err != nil {
			return fmt.Errorf("--only: %w", err)
		}
		only = a
	}

	backend := scorerFlag
	if backend == "" {
		backend = cfg.SentimentBackend
	}
	scorer, err := buildScorer(cfg, backend)
	if err != nil {
		return fmt.Errorf("sentiment scorer: %w", err)
	}

	records, err := chatlog.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	a := analyzer.New(scorer, cfg.ScorerWorkers, slog.Default())
	report, err := a.AnalyzeRecords(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if only != "" {
		report = filterArchetype(report, only)
	}

	out := cmd.OutOrStdout()
	if jsonFlag {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return writeReport(out, report, topFlag)
}

// filterArchetype keeps only the authors labelled a. Run-wide totals are unchanged.
func filterArchetype(report *analyzer.Report, a archetype.Archetype) *analyzer.Report {
	filtered := *report
	filtered.Authors = nil
	for _, p := range report.Authors {
		if p.Archetype == a {
			filtered.Authors = append(filtered.Authors, p)
		}
	}
	return &filtered
}

// writeReport prints the summary, the leaderboard and the archetype tally.
func writeReport(w io.Writer, report *analyzer.Report, top int) error {
	fmt.Fprintf(w, "Total messages:   %d\n", report.TotalMessages)
	fmt.Fprintf(w, "Active members:   %d\n", report.ActiveMembers)
	fmt.Fprintf(w, "Most active date: %s\n\n", report.MostActiveDate)

	if top <= 0 {
		top = len(report.Authors)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tAUTHOR\tMESSAGES\tVIBE\tARCHETYPE")
	for i, p := range report.Leaderboard(top) {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%+.2f\t%s\n", i+1, p.Author, p.MessageCount, p.VibeScore, p.Label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if rest := len(report.Authors) - top; rest > 0 {
		fmt.Fprintf(w, "... and %d more\n", rest)
	}

	counts := report.Counts()
	var tally []string
	for _, a := range archetypeOrder {
		if n := counts[a]; n > 0 {
			tally = append(tally, fmt.Sprintf("%s: %d", a.Label(), n))
		}
	}
	fmt.Fprintf(w, "\n%s\n", strings.Join(tally, "  "))
	return nil
}
