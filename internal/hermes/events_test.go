package hermes

import (
	"encoding/json"
	"testing"
)

func TestAnalyzeRequestParsing(t *testing.T) {
	raw := `{
		"request_id": "req-001",
		"source": "WhatsApp Chat with Friends.txt",
		"chat_text": "21/07/25, 10:04 am - Alice: hello there"
	}`

	var req AnalyzeRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("failed to parse AnalyzeRequest: %v", err)
	}

	if req.RequestID != "req-001" {
		t.Errorf("expected request_id 'req-001', got '%s'", req.RequestID)
	}
	if req.Source != "WhatsApp Chat with Friends.txt" {
		t.Errorf("expected source, got '%s'", req.Source)
	}
	if req.ChatText != "21/07/25, 10:04 am - Alice: hello there" {
		t.Errorf("expected chat_text, got '%s'", req.ChatText)
	}
}

func TestParseFailedOmitsEmptySource(t *testing.T) {
	data, err := json.Marshal(ParseFailed{RequestID: "req-2", Reason: "could not parse chat export"})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if _, ok := fields["source"]; ok {
		t.Errorf("expected source to be omitted, got %v", fields["source"])
	}
	if fields["reason"] != "could not parse chat export" {
		t.Errorf("unexpected reason %v", fields["reason"])
	}
}

func TestSubjectConstants(t *testing.T) {
	subjects := map[string]string{
		SubjectAnalyzeRequested: "swarm.vibecheck.analyze.requested",
		SubjectReportReady:      "swarm.vibecheck.report.ready",
		SubjectParseFailed:      "swarm.vibecheck.parse.failed",
		SubjectRegistered:       "swarm.agent.vibecheck.registered",
	}
	for got, want := range subjects {
		if got != want {
			t.Errorf("expected subject '%s', got '%s'", want, got)
		}
	}
}
