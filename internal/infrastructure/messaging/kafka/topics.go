// Package kafka provides the event transport for asynchronous batch
// evaluation requests and their results.
package kafka

import (
	"encoding/json"
	"time"
)

const (
	TopicEvaluationRequested = "evaluation.requested"
	TopicEvaluationCompleted = "evaluation.completed"
	TopicEvaluationFailed    = "evaluation.failed"
)

// EventEnvelope standardizes event messages across topics.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// SchemaVersion is the current envelope schema version.
const SchemaVersion = "1.0"

// EvaluationRequestedPayload asks a worker to evaluate a batch of test cases.
type EvaluationRequestedPayload struct {
	RequestID   string    `json:"request_id"`
	Cases       []string  `json:"cases"`
	Reference   []string  `json:"reference,omitempty"`
	PRDText     string    `json:"prd_text,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// EvaluationCompletedPayload announces a finished evaluation and where the
// report was stored.
type EvaluationCompletedPayload struct {
	RequestID    string    `json:"request_id"`
	ReportID     string    `json:"report_id"`
	TotalCases   int       `json:"total_cases"`
	OverallScore float64   `json:"overall_score"`
	CompletedAt  time.Time `json:"completed_at"`
}

// EvaluationFailedPayload reports a batch that could not be evaluated.
type EvaluationFailedPayload struct {
	RequestID string    `json:"request_id"`
	Reason    string    `json:"reason"`
	FailedAt  time.Time `json:"failed_at"`
}
