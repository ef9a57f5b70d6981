package processor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/vibecheck/internal/analyzer"
	"github.com/MikeSquared-Agency/vibecheck/internal/hermes"
)

// handlerTimeout bounds a single analyze request, including sentiment scoring.
const handlerTimeout = 5 * time.Minute

type publisher interface {
	Publish(subject string, data any) error
}

// ReportPoster delivers a finished report to a chat channel.
type ReportPoster interface {
	PostReport(ctx context.Context, report *analyzer.Report, source string) (string, error)
}

// ReportReady is published on hermes.SubjectReportReady once a request is analyzed.
type ReportReady struct {
	RequestID string `json:"request_id"`
	Source    string `json:"source,omitempty"`
	*analyzer.Report
}

// Processor turns analyze requests from the bus into report events.
type Processor struct {
	analyzer *analyzer.Analyzer
	bus      publisher
	slack    ReportPoster
	logger   *slog.Logger
	timeout  time.Duration
}

// New creates a Processor. slack may be nil, in which case reports are only published.
func New(a *analyzer.Analyzer, bus publisher, slack ReportPoster, logger *slog.Logger) *Processor {
	return &Processor{
		analyzer: a,
		bus:      bus,
		slack:    slack,
		logger:   logger,
		timeout:  handlerTimeout,
	}
}

// HandleAnalyzeRequested is the NATS handler for swarm.vibecheck.analyze.requested.
func (p *Processor) HandleAnalyzeRequested(subject string, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	var req hermes.AnalyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		p.logger.Error("failed to parse analyze request", "error", err)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	p.logger.Info("processing analyze request",
		"request_id", req.RequestID,
		"source", req.Source,
		"bytes", len(req.ChatText),
	)

	report, err := p.analyzer.Analyze(ctx, req.ChatText)
	if errors.Is(err, analyzer.ErrNothingParsed) {
		p.logger.Warn("nothing parsed", "request_id", req.RequestID, "source", req.Source)
		p.publish(hermes.SubjectParseFailed, hermes.ParseFailed{
			RequestID: req.RequestID,
			Source:    req.Source,
			Reason:    err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}
	if err != nil {
		p.logger.Error("analysis failed", "request_id", req.RequestID, "error", err)
		return
	}

	p.publish(hermes.SubjectReportReady, ReportReady{
		RequestID: req.RequestID,
		Source:    req.Source,
		Report:    report,
	})

	if p.slack != nil {
		if _, err := p.slack.PostReport(ctx, report, req.Source); err != nil {
			p.logger.Error("slack post failed", "request_id", req.RequestID, "error", err)
		}
	}

	p.logger.Info("analyze request processed",
		"request_id", req.RequestID,
		"report_id", report.ID,
		"authors", len(report.Authors),
	)
}

func (p *Processor) publish(subject string, event any) {
	if err := p.bus.Publish(subject, event); err != nil {
		p.logger.Error("publish failed", "subject", subject, "error", err)
	}
}
