package main

import (
	"context"
	"log" // Use standard log only for fatal errors before the logger is set up
	"os"

	"stockpipe/config"
	"stockpipe/internal/adapters/eodhd"
	"stockpipe/internal/adapters/logger"
	"stockpipe/internal/adapters/store"
	"stockpipe/internal/ingest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if cfg.APIToken == "" {
		log.Fatalf("FATAL: Set EODHD_API_TOKEN")
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	st, err := store.New(store.Config{Root: cfg.DataRoot, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize store: %v", err)
	}

	provider, err := eodhd.New(eodhd.Config{
		APIToken:   cfg.APIToken,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		Logger:     appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize EODHD client: %v", err)
	}

	svc, err := ingest.New(ingest.Config{
		Provider:     provider,
		Store:        st,
		Manifests:    st,
		Logger:       appLogger,
		Exchange:     cfg.Exchange,
		BackstopDays: cfg.BackstopDays,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize ingestion service: %v", err)
	}

	tickers, err := config.LoadTickers(cfg.TickersFile)
	if err != nil {
		log.Fatalf("FATAL: Failed to load tickers: %v", err)
	}

	rep := svc.Run(ctx, tickers)
	if rep.Failed > 0 {
		os.Exit(1)
	}
}
