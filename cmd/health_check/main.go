package main

import (
	"context"
	"fmt"
	"log"

	"stockpipe/config"
	"stockpipe/internal/adapters/logger"
	"stockpipe/internal/adapters/store"
	"stockpipe/internal/health"
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

	checker, err := health.New(health.Config{
		Manifests: st,
		Logger:    appLogger,
		OutDir:    st.RunsDir(),
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize health checker: %v", err)
	}

	sum, err := checker.Run(ctx)
	if err != nil {
		log.Fatalf("FATAL: Health check failed: %v", err)
	}

	for i, r := range sum.Rows {
		if i >= 20 {
			break
		}
		fmt.Printf("%-12s max_date=%s days_behind=%d status=%s\n", r.Ticker, r.MaxDate, r.DaysBehind, r.Status)
	}
	if sum.StaleCount > 0 {
		fmt.Printf("[WARN] tickers >1 day behind: %d\n", sum.StaleCount)
	}
}
