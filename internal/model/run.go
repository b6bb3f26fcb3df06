package model

import "time"

// RunStatus tracks the lifecycle of a matching run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one matching run and, once complete, its report.
type Run struct {
	ID          string       `json:"id"`
	Status      RunStatus    `json:"status"`
	Report      *MatchReport `json:"report,omitempty"`
	Error       string       `json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
