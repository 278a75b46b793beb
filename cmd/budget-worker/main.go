package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"budget/internal/amqp"
	"budget/internal/backend"
	"budget/internal/cli"
	applog "budget/internal/log"
	"budget/internal/services"
	gsheet "budget/internal/sheets/google"
	"budget/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentWorker, os.Stdout)
	logger.Info("Starting budget-worker")

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the summary worker")
		os.Exit(1)
	}

	// The worker reads what the API wrote, so it needs a store both processes open.
	bcfg, err := backend.FromAppConfig(cfg)
	if err == nil {
		err = bcfg.RequireShared()
	}
	if err != nil {
		logger.Error("Unsupported backend for the summary worker", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	store, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	sheets, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	summaryWorker := worker.NewSummaryWorker(services.NewSummaryService(store.Store, nil), sheets, store.Store)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return summaryWorker.RunPeriodic(gctx, cfg.ExportInterval)
	})

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		g.Go(func() error {
			return client.ConsumeTransactionRecorded(gctx, summaryWorker.HandleTransactionRecorded)
		})
	} else {
		logger.Info("AMQP disabled, exporting on the periodic schedule only", "interval", cfg.ExportInterval)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
