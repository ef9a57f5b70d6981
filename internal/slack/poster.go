package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/vibecheck/internal/analyzer"
	"github.com/MikeSquared-Agency/vibecheck/internal/archetype"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// summaryAuthors caps how many leaderboard rows go into a Slack post.
const summaryAuthors = 10

type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostReport posts a report summary to the channel and returns the message ts.
func (p *Poster) PostReport(ctx context.Context, report *analyzer.Report, source string) (string, error) {
	text := formatReportMessage(report, source)

	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
			{
				"type": "context",
				"elements": []map[string]any{
					{
						"type": "mrkdwn",
						"text": "Report " + report.ID.String(),
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}

	p.logger.Info("posted report to slack", "ts", slackResp.TS, "report_id", report.ID)
	return slackResp.TS, nil
}

func formatReportMessage(report *analyzer.Report, source string) string {
	var sb strings.Builder

	if source != "" {
		fmt.Fprintf(&sb, "*Vibe check:* %s\n", source)
	} else {
		sb.WriteString("*Vibe check*\n")
	}
	fmt.Fprintf(&sb, "Total messages: %d | Active members: %d | Most active date: %s\n\n",
		report.TotalMessages, report.ActiveMembers, report.MostActiveDate)

	top := report.Leaderboard(summaryAuthors)
	if len(top) == 0 {
		sb.WriteString("_Nobody said anything._")
		return sb.String()
	}

	sb.WriteString("*Leaderboard*\n")
	for i, a := range top {
		fmt.Fprintf(&sb, "%d. %s: %d msgs, vibe %+.2f, %s\n", i+1, a.Author, a.MessageCount, a.VibeScore, a.Label)
	}
	if rest := len(report.Authors) - len(top); rest > 0 {
		fmt.Fprintf(&sb, "_…and %d more_\n", rest)
	}

	counts := report.Counts()
	var parts []string
	for _, arch := range []archetype.Archetype{archetype.Yapper, archetype.Saint, archetype.Menace, archetype.NPC, archetype.Ghost} {
		if n := counts[arch]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s ×%d", arch.Label(), n))
		}
	}
	fmt.Fprintf(&sb, "\n%s", strings.Join(parts, " · "))

	return sb.String()
}
