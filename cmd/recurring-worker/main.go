package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"controlgastos/internal/api"
	"controlgastos/internal/config"
	"controlgastos/internal/log"
	"controlgastos/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: "recurring-worker"})
	log.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	client := api.New(cfg.APIBaseURL,
		api.WithCompanyCacheTTL(cfg.CompanyCacheTTL),
	)
	materializer := services.NewRecurringMaterializer(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := func() {
		runCtx, runCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer runCancel()

		count, err := materializer.ProcessAll(runCtx, time.Now())
		if err != nil {
			logger.Error("Recurring processing failed", "error", err)
			return
		}
		logger.Info("Recurring processing complete", "payments_created", count)
	}

	// Run once on startup so a restarted worker catches up immediately.
	logger.Info("Running initial recurring processing...")
	run()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RecurringSchedule, run); err != nil {
		logger.Error("Invalid recurring schedule", "schedule", cfg.RecurringSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Recurring scheduler started", "schedule", cfg.RecurringSchedule, "api", cfg.APIBaseURL)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	cancel()
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
		logger.Info("Recurring-worker shutdown complete")
	case <-time.After(30 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}
