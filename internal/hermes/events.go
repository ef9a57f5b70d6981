package hermes

import "time"

const (
	SubjectAnalyzeRequested = "swarm.vibecheck.analyze.requested"
	SubjectReportReady      = "swarm.vibecheck.report.ready"
	SubjectParseFailed      = "swarm.vibecheck.parse.failed"
	SubjectRegistered       = "swarm.agent.vibecheck.registered"

	// QueueAnalyzers is the queue group vibecheck instances join for analyze requests.
	QueueAnalyzers = "vibecheck-analyzers"
)

// AnalyzeRequest asks for a chat export to be analyzed.
type AnalyzeRequest struct {
	RequestID string `json:"request_id"`
	Source    string `json:"source,omitempty"` // e.g. the uploaded file name
	ChatText  string `json:"chat_text"`
}

// ParseFailed is published when a request's export contained no parseable line.
type ParseFailed struct {
	RequestID string    `json:"request_id"`
	Source    string    `json:"source,omitempty"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
