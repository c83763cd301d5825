// Package source retrieves raw AER report files from the regulator's static
// file host.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
	"github.com/go-resty/resty/v2"
)

var (
	// ErrReportNotFound means the publisher has not produced that day's file
	// yet. Common shortly after the posting hour; the next scheduled firing
	// is the retry.
	ErrReportNotFound = errors.New("report not published yet")

	// ErrSourceUnavailable is a transport or server-side failure.
	ErrSourceUnavailable = errors.New("report source unavailable")
)

// Fetcher retrieves the raw report bytes for a dataset and report date.
type Fetcher interface {
	Fetch(ctx context.Context, dataset reports.Dataset, date reports.Date) (reports.RawReport, error)
}

const DefaultBaseURL = "https://static.aer.ca"

// SourcePath is the path under the AER static host for one day's file.
func SourcePath(dataset reports.Dataset, date reports.Date) string {
	switch dataset {
	case reports.DatasetST1:
		return fmt.Sprintf("/data/well-lic/WELLS%s.txt", date.MonthDay())
	case reports.DatasetST100:
		return fmt.Sprintf("/prd/data/pipeconst/PIPE%s.txt", date.MonthDay())
	}
	return ""
}

type AERFetcher struct {
	client *resty.Client
}

var _ Fetcher = (*AERFetcher)(nil)

func NewAERFetcher(baseURL string) *AERFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &AERFetcher{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(60 * time.Second),
	}
}

func (f *AERFetcher) Fetch(ctx context.Context, dataset reports.Dataset, date reports.Date) (reports.RawReport, error) {
	path := SourcePath(dataset, date)
	if path == "" {
		return reports.RawReport{}, fmt.Errorf("unknown dataset %q", dataset)
	}

	res, err := f.client.R().SetContext(ctx).Get(path)
	if err != nil {
		slog.Error("aer fetch failed", "dataset", dataset, "date", date, "error", err)
		return reports.RawReport{}, fmt.Errorf("GET %s: %w: %w", path, ErrSourceUnavailable, err)
	}

	if res.StatusCode() == http.StatusNotFound {
		return reports.RawReport{}, fmt.Errorf("GET %s: %w", path, ErrReportNotFound)
	}
	if res.IsError() {
		slog.Error("aer fetch returned error status", "dataset", dataset, "date", date, "status", res.StatusCode())
		return reports.RawReport{}, fmt.Errorf("GET %s: status %d: %w", path, res.StatusCode(), ErrSourceUnavailable)
	}

	slog.Info("fetched aer report", "dataset", dataset, "date", date, "bytes", len(res.Body()))

	return reports.RawReport{
		Dataset:   dataset,
		Date:      date,
		SourceURL: f.client.BaseURL + path,
		Body:      res.Body(),
	}, nil
}
