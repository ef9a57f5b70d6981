package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/vibecheck/internal/analyzer"
	"github.com/MikeSquared-Agency/vibecheck/internal/archetype"
	"github.com/MikeSquared-Agency/vibecheck/internal/config"
	"github.com/MikeSquared-Agency/vibecheck/internal/sentiment"
	"github.com/MikeSquared-Agency/vibecheck/internal/stats"
)

const sampleChat = `21/07/25, 10:04 am - Alice: I love this group, you are all wonderful
21/07/25, 10:05 am - Bob: hi
21/07/25, 10:06 am - Alice: see you tomorrow
22/07/25, 9:00 pm - Bob: ok`

func TestInit(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "analyze"} {
		if !names[want] {
			t.Errorf("expected %s subcommand", want)
		}
	}
	for _, flag := range []string{"json", "top", "scorer", "only"} {
		if analyzeCmd.Flags().Lookup(flag) == nil {
			t.Errorf("%s flag should exist", flag)
		}
	}
	if def := analyzeCmd.Flags().Lookup("top").DefValue; def != "100" {
		t.Errorf("--top default = %s, want 100", def)
	}
}

func newTestCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	return cmd, &out
}

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func resetFlags(t *testing.T, asJSON bool, top int, scorer string) {
	t.Helper()
	jsonFlag, topFlag, scorerFlag, onlyFlag = asJSON, top, scorer, ""
	t.Cleanup(func() { jsonFlag, topFlag, scorerFlag, onlyFlag = false, analyzer.LeaderboardSize, "", "" })
	t.Setenv("LOG_LEVEL", "error")
}

func TestRunAnalyze_JSON(t *testing.T) {
	resetFlags(t, true, 20, "vader")
	cmd, out := newTestCommand(t)

	if err := runAnalyze(cmd, []string{writeExport(t, sampleChat)}); err != nil {
		t.Fatalf("runAnalyze error: %v", err)
	}

	var report analyzer.Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not a report: %v\n%s", err, out.String())
	}
	if report.TotalMessages != 4 || report.ActiveMembers != 2 {
		t.Errorf("unexpected totals: %+v", report)
	}
	if report.MostActiveDate != "2025-07-21" {
		t.Errorf("most active date = %q", report.MostActiveDate)
	}
	for _, p := range report.Authors {
		if p.Archetype != archetype.Ghost {
			t.Errorf("%s = %s, want ghost", p.Author, p.Archetype)
		}
	}
}

func TestRunAnalyze_Table(t *testing.T) {
	resetFlags(t, false, 20, "vader")
	cmd, out := newTestCommand(t)

	if err := runAnalyze(cmd, []string{writeExport(t, sampleChat)}); err != nil {
		t.Fatalf("runAnalyze error: %v", err)
	}

	output := out.String()
	for _, want := range []string{"Total messages:   4", "Active members:   2", "RANK", "Alice", "Bob", "👻 The Ghost: 2"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunAnalyze_NothingParsed(t *testing.T) {
	resetFlags(t, false, 20, "vader")
	cmd, _ := newTestCommand(t)

	err := runAnalyze(cmd, []string{writeExport(t, "hello\nthis is not an export\n")})
	if !errors.Is(err, analyzer.ErrNothingParsed) {
		t.Fatalf("expected ErrNothingParsed, got %v", err)
	}
	if !strings.Contains(err.Error(), "could not parse") {
		t.Errorf("error should mention parsing: %v", err)
	}
}

func TestRunAnalyze_MissingFile(t *testing.T) {
	resetFlags(t, false, 20, "vader")
	cmd, _ := newTestCommand(t)

	if err := runAnalyze(cmd, []string{filepath.Join(t.TempDir(), "missing.txt")}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuildScorer(t *testing.T) {
	if _, err := buildScorer(config.Config{}, sentiment.BackendVader); err != nil {
		t.Errorf("vader: unexpected error %v", err)
	}
	if _, err := buildScorer(config.Config{}, ""); err != nil {
		t.Errorf("default: unexpected error %v", err)
	}
	if _, err := buildScorer(config.Config{}, sentiment.BackendAnthropic); err == nil {
		t.Error("anthropic without api key should fail")
	}
	if _, err := buildScorer(config.Config{AnthropicAPIKey: "sk-test"}, sentiment.BackendAnthropic); err != nil {
		t.Errorf("anthropic: unexpected error %v", err)
	}
	if _, err := buildScorer(config.Config{}, "textblob"); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestWriteReport_Truncates(t *testing.T) {
	var authors []archetype.Profile
	for _, name := range []string{"a", "b", "c", "d"} {
		authors = append(authors, archetype.Profile{
			AuthorStats: stats.AuthorStats{Author: name, MessageCount: 10},
			Archetype:   archetype.NPC,
			Label:       archetype.NPC.Label(),
		})
	}
	report := &analyzer.Report{TotalMessages: 40, ActiveMembers: 4, MostActiveDate: analyzer.NoDate, Authors: authors}

	var out bytes.Buffer
	if err := writeReport(&out, report, 2); err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "... and 2 more") {
		t.Errorf("expected truncation note:\n%s", output)
	}
	if rows := strings.Count(output, archetype.NPC.Label()+"\n"); rows != 2 {
		t.Errorf("expected 2 leaderboard rows, got %d:\n%s", rows, output)
	}
	if !strings.Contains(output, "Most active date: N/A") {
		t.Errorf("expected N/A date:\n%s", output)
	}
}

func TestRunAnalyze_OnlyArchetype(t *testing.T) {
	resetFlags(t, true, 20, "vader")
	onlyFlag = "yapper"
	cmd, out := newTestCommand(t)

	var lines []string
	for i := 0; i < 12; i++ {
		lines = append(lines, fmt.Sprintf("21/07/25, 9:%02d am - Carol: the meeting is at noon", i))
	}
	export := sampleChat + "\n" + strings.Join(lines, "\n")

	if err := runAnalyze(cmd, []string{writeExport(t, export)}); err != nil {
		t.Fatalf("runAnalyze error: %v", err)
	}

	var report analyzer.Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not a report: %v", err)
	}
	if report.ActiveMembers != 3 || report.TotalMessages != 16 {
		t.Errorf("totals should cover the whole run: %+v", report)
	}
	// p90 over {2, 2, 12} is 10, so only Carol is a yapper.
	if len(report.Authors) != 1 || report.Authors[0].Author != "Carol" {
		t.Errorf("expected only Carol, got %+v", report.Authors)
	}
}

func TestRunAnalyze_UnknownOnlyArchetype(t *testing.T) {
	resetFlags(t, false, 20, "vader")
	onlyFlag = "lurker"
	cmd, _ := newTestCommand(t)

	err := runAnalyze(cmd, []string{writeExport(t, sampleChat)})
	if err == nil || !strings.Contains(err.Error(), "lurker") {
		t.Errorf("expected unknown archetype error, got %v", err)
	}
}

func TestFilterArchetype(t *testing.T) {
	report := &analyzer.Report{TotalMessages: 9, Authors: []archetype.Profile{
		{AuthorStats: stats.AuthorStats{Author: "a"}, Archetype: archetype.Ghost},
		{AuthorStats: stats.AuthorStats{Author: "b"}, Archetype: archetype.Saint},
		{AuthorStats: stats.AuthorStats{Author: "c"}, Archetype: archetype.Ghost},
	}}

	got := filterArchetype(report, archetype.Ghost)
	if len(got.Authors) != 2 || got.Authors[0].Author != "a" || got.Authors[1].Author != "c" {
		t.Errorf("unexpected filter result: %+v", got.Authors)
	}
	if got.TotalMessages != 9 {
		t.Errorf("totals changed: %d", got.TotalMessages)
	}
	if len(report.Authors) != 3 {
		t.Errorf("original report was modified")
	}
}

func TestWriteReport_ZeroTopPrintsEveryone(t *testing.T) {
	var authors []archetype.Profile
	for i := 0; i < 150; i++ {
		authors = append(authors, archetype.Profile{
			AuthorStats: stats.AuthorStats{Author: fmt.Sprintf("user-%03d", i), MessageCount: 10},
			Archetype:   archetype.NPC,
			Label:       archetype.NPC.Label(),
		})
	}
	report := &analyzer.Report{TotalMessages: 1500, ActiveMembers: 150, MostActiveDate: analyzer.NoDate, Authors: authors}

	var out bytes.Buffer
	if err := writeReport(&out, report, 0); err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	output := out.String()
	if rows := strings.Count(output, archetype.NPC.Label()+"\n"); rows != 150 {
		t.Errorf("expected 150 leaderboard rows, got %d", rows)
	}
	if strings.Contains(output, "more") {
		t.Errorf("expected no truncation note with --top 0")
	}
}
