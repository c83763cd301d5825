// Package pipeline is the single entry point of the advisor: fetch one day's
// AER report, stage it, summarize it, notify the recipient, delete the staged
// copy.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/notify"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/source"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/staging"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/summarize"
)

// Deps wires the four collaborators into the orchestrator.
type Deps struct {
	Fetcher    source.Fetcher
	Store      staging.Store
	Summarizer summarize.Summarizer
	Notifier   notify.Notifier

	// Now lets tests pin the wall clock; defaults to time.Now.
	Now func() time.Time
}

type Pipeline struct {
	fetcher    source.Fetcher
	store      staging.Store
	summarizer summarize.Summarizer
	notifier   notify.Notifier
	now        func() time.Time
}

func New(deps Deps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		fetcher:    deps.Fetcher,
		store:      deps.Store,
		summarizer: deps.Summarizer,
		notifier:   deps.Notifier,
		now:        now,
	}
}

// Run processes exactly one (dataset, date) to completion or terminal
// failure. A zero override means "resolve the date from the wall clock".
// Nothing is retried in-process; the scheduler's next firing is the retry.
func (p *Pipeline) Run(ctx context.Context, dataset reports.Dataset, override reports.Date) Result {
	result := Result{
		RunID:   uuid.New(),
		Dataset: dataset,
	}

	if !dataset.Valid() {
		result.Status = StatusConfigError
		result.Message = fmt.Sprintf("unknown dataset %q", dataset)
		slog.Error("invalid dataset, refusing to run", "run_id", result.RunID, "dataset", dataset)
		return result
	}

	date := override
	if date.IsZero() {
		resolved, err := reports.ResolveReportDate(dataset, p.now())
		if err != nil {
			result.Status = StatusConfigError
			result.Message = err.Error()
			return result
		}
		date = resolved
	}
	result.Date = date

	log := slog.With("run_id", result.RunID, "dataset", dataset, "date", date.String())
	log.Info("pipeline run started", "backfill", !override.IsZero())

	report, err := p.fetcher.Fetch(ctx, dataset, date)
	if err != nil {
		// Nothing was staged, nothing to clean up.
		result.Status = StatusFetchFailed
		result.Message = err.Error()
		if errors.Is(err, source.ErrReportNotFound) {
			log.Warn("report not published yet", "error", err)
		} else {
			log.Error("fetch failed", "error", err)
		}
		return result
	}

	key := reports.StagingKey(dataset, date)
	result.StagingKey = key

	err = p.store.Put(ctx, staging.Object{
		Key:         key,
		Body:        report.Body,
		ContentType: "text/plain",
		Metadata: map[string]string{
			"source_url": report.SourceURL,
			"sha256":     report.Checksum(),
			"dataset":    string(dataset),
		},
	})
	if err != nil {
		// Object state is unknown; no deletion is attempted.
		result.Status = StatusStageFailed
		result.Message = err.Error()
		log.Error("staging write failed", "key", key, "error", err)
		return result
	}

	// Read the staged copy back rather than summarizing the in-memory bytes,
	// so a run only ever summarizes what it durably staged.
	content, err := p.store.Get(ctx, key)
	if err != nil {
		result.Status = StatusStageFailed
		result.Message = err.Error()
		log.Error("staging read-back failed", "key", key, "error", err)
		p.cleanup(ctx, key, &result, log)
		return result
	}

	summary, err := p.summarizer.Summarize(ctx, summarize.Request{
		Dataset: dataset,
		Date:    date,
		Content: content,
	})
	if err != nil {
		result.Status = StatusSummarizeFailed
		result.Message = err.Error()
		log.Error("summarization failed", "error", err)
		// The report can be re-fetched on demand; never leave it staged.
		p.cleanup(ctx, key, &result, log)
		return result
	}

	subject := notify.SummarySubject(dataset, date)
	body := notify.SummaryBody(dataset, date, summary, key)
	if err := p.notifier.Publish(ctx, subject, body); err != nil {
		result.Status = StatusNotifyFailed
		result.Message = err.Error()
		log.Error("notification failed", "error", err)
		p.cleanup(ctx, key, &result, log)
		return result
	}

	result.Status = StatusSucceeded
	p.cleanup(ctx, key, &result, log)
	log.Info("pipeline run finished", "status", result.Status)
	return result
}

// cleanup deletes the staged object. A failure here is diagnostic only: the
// next run for the same date overwrites the key, and the bucket's lifecycle
// policy bounds retention either way.
func (p *Pipeline) cleanup(ctx context.Context, key string, result *Result, log *slog.Logger) {
	if err := p.store.Delete(ctx, key); err != nil {
		log.Warn("cleanup failed, staged object may remain until next run", "key", key, "error", err)
		if result.Message == "" {
			result.Message = fmt.Sprintf("cleanup failed: %v", err)
		} else {
			result.Message = fmt.Sprintf("%s (cleanup failed: %v)", result.Message, err)
		}
	}
}
