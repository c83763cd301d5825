package pipeline_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/notify"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/pipeline"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/source"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/staging"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/summarize"
)

type fetchCall struct {
	dataset reports.Dataset
	date    reports.Date
}

type fakeFetcher struct {
	body  []byte
	err   error
	calls []fetchCall
}

func (f *fakeFetcher) Fetch(ctx context.Context, dataset reports.Dataset, date reports.Date) (reports.RawReport, error) {
	f.calls = append(f.calls, fetchCall{dataset, date})
	if f.err != nil {
		return reports.RawReport{}, f.err
	}
	return reports.RawReport{
		Dataset:   dataset,
		Date:      date,
		SourceURL: "https://static.aer.ca" + source.SourcePath(dataset, date),
		Body:      f.body,
	}, nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]staging.Object

	putErr    error
	getErr    error
	deleteErr error

	puts    int
	gets    int
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]staging.Object)}
}

func (s *fakeStore) Put(ctx context.Context, obj staging.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[obj.Key] = obj
	return nil
}

func (s *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	obj, ok := s.objects[key]
	if !ok {
		return nil, staging.ErrObjectNotFound
	}
	return obj.Body, nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) objectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, req summarize.Request) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

type published struct {
	subject string
	message string
}

type fakeNotifier struct {
	err   error
	calls []published
}

func (f *fakeNotifier) Publish(ctx context.Context, subject, message string) error {
	f.calls = append(f.calls, published{subject, message})
	return f.err
}

type fixture struct {
	fetcher    *fakeFetcher
	store      *fakeStore
	summarizer *fakeSummarizer
	notifier   *fakeNotifier
	pipeline   *pipeline.Pipeline
}

// Fixed clock: 2024-06-10 (a Monday) at noon Alberta time, so both datasets
// resolve to 2024-06-10 when no override is given.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := reports.AlbertaLocation()
	require.NoError(t, err)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, loc)

	f := &fixture{
		fetcher:    &fakeFetcher{body: make([]byte, 500)},
		store:      newFakeStore(),
		summarizer: &fakeSummarizer{summary: "A quiet day: 3 new well licences, all in the Montney, no unusual activity."},
		notifier:   &fakeNotifier{},
	}
	f.pipeline = pipeline.New(pipeline.Deps{
		Fetcher:    f.fetcher,
		Store:      f.store,
		Summarizer: f.summarizer,
		Notifier:   f.notifier,
		Now:        func() time.Time { return now },
	})
	return f
}

func TestRunInvalidDatasetPerformsNoIO(t *testing.T) {
	f := newFixture(t)

	result := f.pipeline.Run(context.Background(), reports.Dataset("ST2"), reports.Date{})

	assert.Equal(t, pipeline.StatusConfigError, result.Status)
	assert.NotEmpty(t, result.Message)
	assert.Empty(t, f.fetcher.calls)
	assert.Zero(t, f.store.puts)
	assert.Zero(t, f.store.gets)
	assert.Zero(t, f.store.deletes)
	assert.Zero(t, f.summarizer.calls)
	assert.Empty(t, f.notifier.calls)
}

func TestRunSuccess(t *testing.T) {
	f := newFixture(t)

	result := f.pipeline.Run(context.Background(), reports.DatasetST1, reports.Date{})

	assert.Equal(t, pipeline.StatusSucceeded, result.Status)
	assert.True(t, result.Succeeded())
	assert.Equal(t, reports.DatasetST1, result.Dataset)
	assert.Equal(t, "2024-06-10", result.Date.String())
	assert.Equal(t, "2024/06/10/st1_20240610.txt", result.StagingKey)
	assert.NotEqual(t, result.RunID.String(), "00000000-0000-0000-0000-000000000000")

	// no staged object survives the run
	assert.Zero(t, f.store.objectCount())
	assert.Equal(t, 1, f.store.puts)
	assert.Equal(t, 1, f.store.gets)
	assert.Equal(t, 1, f.store.deletes)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "AER ST1 summary – 2024-06-10", f.notifier.calls[0].subject)
	assert.Contains(t, f.notifier.calls[0].message, f.summarizer.summary)
	assert.Contains(t, f.notifier.calls[0].message, result.StagingKey)
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t)

	first := f.pipeline.Run(context.Background(), reports.DatasetST1, reports.Date{})
	second := f.pipeline.Run(context.Background(), reports.DatasetST1, reports.Date{})

	assert.Equal(t, pipeline.StatusSucceeded, first.Status)
	assert.Equal(t, pipeline.StatusSucceeded, second.Status)
	assert.Equal(t, first.StagingKey, second.StagingKey)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Zero(t, f.store.objectCount())
}

func TestRunBackfillUsesOverrideDate(t *testing.T) {
	f := newFixture(t)

	override, err := reports.ParseDate("2023-12-25")
	require.NoError(t, err)

	result := f.pipeline.Run(context.Background(), reports.DatasetST100, override)

	assert.Equal(t, pipeline.StatusSucceeded, result.Status)
	require.Len(t, f.fetcher.calls, 1)
	assert.Equal(t, override, f.fetcher.calls[0].date)
	assert.Equal(t, "2023/12/25/st100_20231225.txt", result.StagingKey)
}

func TestRunReportNotFound(t *testing.T) {
	f := newFixture(t)
	f.fetcher.err = source.ErrReportNotFound

	result := f.pipeline.Run(context.Background(), reports.DatasetST100, reports.Date{})

	assert.Equal(t, pipeline.StatusFetchFailed, result.Status)
	assert.Zero(t, f.store.puts)
	assert.Zero(t, f.store.deletes)
	assert.Zero(t, f.summarizer.calls)
	assert.Empty(t, f.notifier.calls)
}

func TestRunSourceUnavailable(t *testing.T) {
	f := newFixture(t)
	f.fetcher.err = source.ErrSourceUnavailable

	result := f.pipeline.Run(context.Background(), reports.DatasetST1, reports.Date{})

	assert.Equal(t, pipeline.StatusFetchFailed, result.Status)
	assert.Zero(t, f.store.puts)
}

func TestRunStageWriteFailure(t *testing.T) {
	f := newFixture(t)
	f.store.putErr = errors.New("bucket unavailable")

	result := f.pipeline.Run(context.Background(), reports.DatasetST1, reports.Date{})

	assert.Equal(t, pipeline.StatusStageFailed, result.Status)
	// object state is unknown after a failed write: no delete is attempted
	assert.Zero(t, f.store.deletes)
	assert.Zero(t, f.summarizer.calls)
	assert.Empty(t, f.notifier.calls)
}

func TestRunSummarizeFailureStillDeletes(t *testing.T) {
	f := newFixture(t)
	f.summarizer.err = summarize.ErrModelUnavailable

	result := f.pipeline.Run(context.Background(), reports.DatasetST1, reports.Date{})

	assert.Equal(t, pipeline.StatusSummarizeFailed, result.Status)
	assert.Zero(t, f.store.objectCount())
	assert.Equal(t, 1, f.store.deletes)
	assert.Empty(t, f.notifier.calls)
}

func TestRunNotifyFailureStillDeletes(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = notify.ErrDeliveryFailed

	result := f.pipeline.Run(context.Background(), reports.DatasetST1, reports.Date{})

	assert.Equal(t, pipeline.StatusNotifyFailed, result.Status)
	assert.Zero(t, f.store.objectCount())
	assert.Equal(t, 1, f.store.deletes)
	require.Len(t, f.notifier.calls, 1)
}

func TestRunCleanupFailureDoesNotDowngradeSuccess(t *testing.T) {
	f := newFixture(t)
	f.store.deleteErr = errors.New("access denied")

	result := f.pipeline.Run(context.Background(), reports.DatasetST1, reports.Date{})

	assert.Equal(t, pipeline.StatusSucceeded, result.Status)
	assert.Contains(t, result.Message, "cleanup failed")
}

func TestRunStagedObjectCarriesMetadata(t *testing.T) {
	f := newFixture(t)
	f.fetcher.body = []byte("report body")
	f.store.deleteErr = errors.New("keep the object around for inspection")

	result := f.pipeline.Run(context.Background(), reports.DatasetST1, reports.Date{})
	require.Equal(t, pipeline.StatusSucceeded, result.Status)

	obj, ok := f.store.objects[result.StagingKey]
	require.True(t, ok)
	assert.Equal(t, "text/plain", obj.ContentType)
	assert.Equal(t, "ST1", obj.Metadata["dataset"])
	assert.NotEmpty(t, obj.Metadata["sha256"])
	assert.Contains(t, obj.Metadata["source_url"], "WELLS0610.txt")
}
