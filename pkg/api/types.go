// Package api holds the wire types of the advisor's trigger surface, shared
// by the HTTP server and CLI output.
package api

// RunRequest triggers one pipeline run. Date is an optional YYYY-MM-DD
// backfill override; when empty the report date is resolved from the clock.
type RunRequest struct {
	Dataset string `json:"dataset"`
	Date    string `json:"date,omitempty"`
}

// RunResult mirrors the pipeline's outcome record.
type RunResult struct {
	RunID      string `json:"run_id"`
	Dataset    string `json:"dataset"`
	Date       string `json:"date,omitempty"`
	Status     string `json:"status"`
	StagingKey string `json:"staging_key,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ReportDateQuery asks which report date a run started now would fetch.
type ReportDateQuery struct {
	Dataset string `schema:"dataset,required"`
}

type ReportDateResponse struct {
	Dataset string `json:"dataset"`
	Date    string `json:"date"`
}
