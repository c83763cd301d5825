package pipeline

import (
	"github.com/google/uuid"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
)

// Status is the terminal outcome of one pipeline run.
type Status string

const (
	StatusSucceeded       Status = "succeeded"
	StatusConfigError     Status = "config-error"
	StatusFetchFailed     Status = "fetch-failed"
	StatusStageFailed     Status = "stage-failed"
	StatusSummarizeFailed Status = "summarize-failed"
	StatusNotifyFailed    Status = "notify-failed"
)

// Result is the sole output the invoking environment observes: every stage
// failure is converted into one of these rather than propagated.
type Result struct {
	RunID      uuid.UUID       `json:"run_id"`
	Dataset    reports.Dataset `json:"dataset"`
	Date       reports.Date    `json:"date"`
	Status     Status          `json:"status"`
	StagingKey string          `json:"staging_key,omitempty"`
	Message    string          `json:"message,omitempty"`
}

func (r Result) Succeeded() bool {
	return r.Status == StatusSucceeded
}
