package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/config"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/schedule"
)

// scheduler is the in-process alternative to an external cron: it fires the
// pipeline daily at the Alberta-local times listed in the schedule file.
func main() {
	log.Println("Starting advisor scheduler...")

	var (
		envFile      string
		schedulePath string
	)
	flag.StringVar(&envFile, "env", "", "path to load env from")
	flag.StringVar(&schedulePath, "schedule", "schedule.yaml", "path to the schedule file")
	flag.Parse()

	config.LoadEnvFile(envFile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sched, err := schedule.Load(schedulePath)
	if err != nil {
		log.Fatalf("Failed to load schedule: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := cfg.NewPipeline(ctx)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	override, err := cfg.DateOverride()
	if err != nil {
		log.Fatalf("Invalid REPORT_DATE override: %v", err)
	}

	runner := schedule.NewRunner(sched, cfg.RunTimeout, func(runCtx context.Context, dataset reports.Dataset, date reports.Date) {
		p.Run(runCtx, dataset, date)
	})
	if !override.IsZero() {
		log.Printf("REPORT_DATE override %s is set, the next firing will backfill that date", override)
		runner.SetDateOverride(override)
	}

	log.Printf("Scheduler started with %d entries. Press Ctrl+C to exit.", len(sched.Entries))
	if err := runner.Start(ctx); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}

	log.Println("Scheduler stopped.")
}
