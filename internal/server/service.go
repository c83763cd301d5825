// Package server exposes the pipeline as an HTTP trigger surface, for manual
// runs and for schedulers that invoke over HTTP instead of in-process.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/pipeline"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/pkg/api"
)

type Service struct {
	pipeline *pipeline.Pipeline
	now      func() time.Time
}

func NewService(p *pipeline.Pipeline) *Service {
	return &Service{pipeline: p, now: time.Now}
}

func (s *Service) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Route("/runs", func(r chi.Router) {
		r.Post("/", RestHandler(s.TriggerRun))
	})
	r.Get("/report-date", RestHandler(s.ResolveReportDate))
}

// TriggerRun executes one pipeline run synchronously. The run outcome, failed
// or not, is reported with a 200: a failed run is a structured result, not an
// HTTP error. Only malformed requests get 4xx.
func (s *Service) TriggerRun(r *http.Request) (any, error) {
	req, err := ParseRequest[api.RunRequest](r)
	if err != nil {
		return nil, err
	}

	dataset, err := reports.ParseDataset(req.Dataset)
	if err != nil {
		return nil, CodedError(http.StatusBadRequest, err)
	}

	var override reports.Date
	if req.Date != "" {
		override, err = reports.ParseDate(req.Date)
		if err != nil {
			return nil, CodedError(http.StatusBadRequest, err)
		}
	}

	result := s.pipeline.Run(r.Context(), dataset, override)
	return toAPIResult(result), nil
}

// ResolveReportDate previews which report date a run started now would fetch,
// without performing any I/O. Lets operators sanity-check the publication
// schedule logic.
func (s *Service) ResolveReportDate(r *http.Request) (any, error) {
	query, err := ParseRequestQueryParams[api.ReportDateQuery](r)
	if err != nil {
		return nil, err
	}

	dataset, err := reports.ParseDataset(query.Dataset)
	if err != nil {
		return nil, CodedError(http.StatusBadRequest, err)
	}

	date, err := reports.ResolveReportDate(dataset, s.now())
	if err != nil {
		return nil, err
	}

	return api.ReportDateResponse{Dataset: dataset.String(), Date: date.String()}, nil
}

func toAPIResult(result pipeline.Result) api.RunResult {
	out := api.RunResult{
		RunID:      result.RunID.String(),
		Dataset:    result.Dataset.String(),
		Status:     string(result.Status),
		StagingKey: result.StagingKey,
		Message:    result.Message,
	}
	if !result.Date.IsZero() {
		out.Date = result.Date.String()
	}
	return out
}
