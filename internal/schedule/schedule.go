// Package schedule runs the pipeline daily at configured Alberta-local times.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
)

// Entry fires one dataset once a day at the given local time.
type Entry struct {
	Dataset string `yaml:"dataset"`
	At      string `yaml:"at"` // "HH:MM", Alberta local time
}

type Schedule struct {
	Entries []Entry `yaml:"entries"`
}

func Load(path string) (Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schedule{}, fmt.Errorf("failed to read schedule file %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (Schedule, error) {
	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schedule{}, fmt.Errorf("failed to parse schedule: %w", err)
	}
	if len(s.Entries) == 0 {
		return Schedule{}, fmt.Errorf("schedule has no entries")
	}

	for i, e := range s.Entries {
		if _, err := reports.ParseDataset(e.Dataset); err != nil {
			return Schedule{}, fmt.Errorf("schedule entry %d: %w", i, err)
		}
		if _, err := time.Parse("15:04", e.At); err != nil {
			return Schedule{}, fmt.Errorf("schedule entry %d: invalid time %q, expected HH:MM: %w", i, e.At, err)
		}
	}
	return s, nil
}

// NextAfter is the next wall-clock instant at or after now that the entry
// fires, in the given location. Entries that did not come out of Parse may
// carry an unparseable time.
func (e Entry) NextAfter(now time.Time, loc *time.Location) (time.Time, error) {
	at, err := time.Parse("15:04", e.At)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM: %w", e.At, err)
	}
	local := now.In(loc)

	next := time.Date(local.Year(), local.Month(), local.Day(), at.Hour(), at.Minute(), 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

// RunFunc performs one pipeline invocation for a dataset. The runner supplies
// a context bounded by the invocation timeout; override is non-zero only on
// the firing that consumes a pending backfill date.
type RunFunc func(ctx context.Context, dataset reports.Dataset, override reports.Date)

type Runner struct {
	schedule Schedule
	run      RunFunc
	timeout  time.Duration

	overrideMu sync.Mutex
	override   reports.Date
}

func NewRunner(s Schedule, timeout time.Duration, run RunFunc) *Runner {
	return &Runner{schedule: s, run: run, timeout: timeout}
}

// SetDateOverride queues a backfill date for the next firing. The override is
// consumed by exactly one firing: a daemon started with a stale REPORT_DATE
// must not re-process the same day at every subsequent firing.
func (r *Runner) SetDateOverride(d reports.Date) {
	r.overrideMu.Lock()
	defer r.overrideMu.Unlock()
	r.override = d
}

func (r *Runner) takeOverride() reports.Date {
	r.overrideMu.Lock()
	defer r.overrideMu.Unlock()
	d := r.override
	r.override = reports.Date{}
	return d
}

// Start launches one firing loop per schedule entry and blocks until the
// context is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	loc, err := reports.AlbertaLocation()
	if err != nil {
		return err
	}

	for _, entry := range r.schedule.Entries {
		go r.loop(ctx, entry, loc)
	}

	<-ctx.Done()
	return nil
}

func (r *Runner) loop(ctx context.Context, entry Entry, loc *time.Location) {
	dataset := reports.Dataset(entry.Dataset)
	for {
		next, err := entry.NextAfter(time.Now(), loc)
		if err != nil {
			slog.Error("invalid schedule entry, stopping its loop", "dataset", dataset, "error", err)
			return
		}
		slog.Info("next scheduled run", "dataset", dataset, "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		override := r.takeOverride()
		if !override.IsZero() {
			slog.Warn("consuming backfill date override for this firing", "dataset", dataset, "date", override.String())
		}

		runCtx, cancel := context.WithTimeout(ctx, r.timeout)
		r.run(runCtx, dataset, override)
		cancel()
	}
}
