package main

import (
	"context"
	"log"

	"stockpipe/config"
	"stockpipe/internal/adapters/logger"
	"stockpipe/internal/adapters/store"
	"stockpipe/internal/features"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	st, err := store.New(store.Config{Root: cfg.DataRoot, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize store: %v", err)
	}

	engine, err := features.New(features.Config{
		Store:    st,
		Logger:   appLogger,
		Exchange: cfg.Exchange,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize feature engine: %v", err)
	}

	tickers, err := config.LoadTickers(cfg.TickersFile)
	if err != nil {
		log.Fatalf("FATAL: Failed to load tickers: %v", err)
	}

	done := 0
	total := 0
	for _, ticker := range tickers {
		n, err := engine.Recompute(ctx, ticker)
		if err != nil {
			appLogger.Error(ctx, err, "feature recompute failed", map[string]interface{}{"ticker": ticker})
			continue
		}
		done++
		total += n
	}
	appLogger.Info(ctx, "feature build complete", map[string]interface{}{
		"tickers": done, "rows": total,
	})
}
