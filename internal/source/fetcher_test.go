package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/source"
)

func TestSourcePath(t *testing.T) {
	d, err := reports.ParseDate("2024-06-10")
	require.NoError(t, err)

	assert.Equal(t, "/data/well-lic/WELLS0610.txt", source.SourcePath(reports.DatasetST1, d))
	assert.Equal(t, "/prd/data/pipeconst/PIPE0610.txt", source.SourcePath(reports.DatasetST100, d))
	assert.Equal(t, "", source.SourcePath(reports.Dataset("ST2"), d))
}

func TestFetchSuccess(t *testing.T) {
	content := []byte("LICENCE NO   COMPANY NAME\n0499999      EXAMPLE ENERGY LTD\n")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/well-lic/WELLS0610.txt", r.URL.Path)
		w.Write(content) //nolint:errcheck
	}))
	defer srv.Close()

	date, err := reports.ParseDate("2024-06-10")
	require.NoError(t, err)

	fetcher := source.NewAERFetcher(srv.URL)
	report, err := fetcher.Fetch(context.Background(), reports.DatasetST1, date)
	require.NoError(t, err)

	assert.Equal(t, reports.DatasetST1, report.Dataset)
	assert.Equal(t, date, report.Date)
	assert.Equal(t, content, report.Body)
	assert.Equal(t, srv.URL+"/data/well-lic/WELLS0610.txt", report.SourceURL)
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	date, err := reports.ParseDate("2024-06-10")
	require.NoError(t, err)

	fetcher := source.NewAERFetcher(srv.URL)
	_, err = fetcher.Fetch(context.Background(), reports.DatasetST100, date)
	assert.ErrorIs(t, err, source.ErrReportNotFound)
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	date, err := reports.ParseDate("2024-06-10")
	require.NoError(t, err)

	fetcher := source.NewAERFetcher(srv.URL)
	_, err = fetcher.Fetch(context.Background(), reports.DatasetST1, date)
	assert.ErrorIs(t, err, source.ErrSourceUnavailable)
}

func TestFetchTransportError(t *testing.T) {
	// Server closed before the request: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	date, err := reports.ParseDate("2024-06-10")
	require.NoError(t, err)

	fetcher := source.NewAERFetcher(url)
	_, err = fetcher.Fetch(context.Background(), reports.DatasetST1, date)
	assert.ErrorIs(t, err, source.ErrSourceUnavailable)
}
