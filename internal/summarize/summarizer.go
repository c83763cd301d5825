// Package summarize turns a raw AER report into a short natural-language
// briefing via a hosted text-generation model.
package summarize

import (
	"context"
	"errors"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
)

var (
	// ErrModelUnavailable is a transient model-service failure; re-running
	// the pipeline is the retry.
	ErrModelUnavailable = errors.New("summarization model unavailable")

	// ErrContentRejected means the model cannot accept the payload at all.
	ErrContentRejected = errors.New("content rejected by summarization model")
)

// Request carries one report's content to a Summarizer.
type Request struct {
	Dataset reports.Dataset
	Date    reports.Date
	Content []byte
}

// Summarizer produces a bounded-length summary. The caller treats the
// returned text as opaque.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (string, error)
}
