package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/config"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/pipeline"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
)

// advisor runs the pipeline once (the scheduled-trigger entry point), or over
// an inclusive date range in backfill mode, and prints the result(s) as JSON.
func main() {
	var (
		envFile    string
		datasetArg string
		dateArg    string
		fromArg    string
		toArg      string
	)
	flag.StringVar(&envFile, "env", "", "path to load env from")
	flag.StringVar(&datasetArg, "dataset", "", "dataset to process (ST1 or ST100)")
	flag.StringVar(&dateArg, "date", "", "backfill a single date (YYYY-MM-DD)")
	flag.StringVar(&fromArg, "from", "", "backfill range start (YYYY-MM-DD)")
	flag.StringVar(&toArg, "to", "", "backfill range end, inclusive (YYYY-MM-DD)")
	flag.Parse()

	config.LoadEnvFile(envFile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dataset, err := reports.ParseDataset(datasetArg)
	if err != nil {
		log.Fatalf("Invalid -dataset: %v", err)
	}

	ctx := context.Background()

	p, err := cfg.NewPipeline(ctx)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	var results []pipeline.Result
	if fromArg != "" || toArg != "" {
		results = runRange(ctx, cfg, p, dataset, fromArg, toArg)
	} else {
		results = []pipeline.Result{runOne(ctx, cfg, p, dataset, dateArg)}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Fatalf("Failed to encode results: %v", err)
	}

	for _, r := range results {
		if !r.Succeeded() {
			os.Exit(1)
		}
	}
}

func runOne(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, dataset reports.Dataset, dateArg string) pipeline.Result {
	override, err := cfg.DateOverride()
	if err != nil {
		log.Fatalf("Invalid REPORT_DATE override: %v", err)
	}
	if dateArg != "" {
		override, err = reports.ParseDate(dateArg)
		if err != nil {
			log.Fatalf("Invalid -date: %v", err)
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()
	return p.Run(runCtx, dataset, override)
}

func runRange(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, dataset reports.Dataset, fromArg, toArg string) []pipeline.Result {
	from, err := reports.ParseDate(fromArg)
	if err != nil {
		log.Fatalf("Invalid -from: %v", err)
	}
	to, err := reports.ParseDate(toArg)
	if err != nil {
		log.Fatalf("Invalid -to: %v", err)
	}
	if to.Time().Before(from.Time()) {
		log.Fatalf("-to %s is before -from %s", to, from)
	}

	days := int(to.Time().Sub(from.Time()).Hours()/24) + 1
	bar := progressbar.NewOptions(days,
		progressbar.OptionSetDescription("backfilling "+dataset.String()),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)

	var results []pipeline.Result
	for day := from; !day.Time().After(to.Time()); day = day.AddDays(1) {
		runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
		results = append(results, p.Run(runCtx, dataset, day))
		cancel()
		bar.Add(1) //nolint:errcheck
	}
	return results
}
