package main

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"stockpipe/config"
	"stockpipe/internal/adapters/logger"
	"stockpipe/internal/adapters/store"
	"stockpipe/internal/report"
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

	svc, err := report.New(report.Config{
		Store:    st,
		Logger:   appLogger,
		Exchange: cfg.Exchange,
		OutDir:   st.ReportsDir(),
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize report service: %v", err)
	}

	tickers, err := config.LoadTickers(cfg.TickersFile)
	if err != nil {
		log.Fatalf("FATAL: Failed to load tickers: %v", err)
	}

	path, rows, err := svc.Generate(ctx, tickers)
	if err != nil {
		log.Fatalf("FATAL: Failed to generate report: %v", err)
	}

	fmt.Printf("[signals] rows=%d written: %s\n", len(rows), path)
	for i, r := range rows {
		if i >= 30 {
			break
		}
		rsi := "-"
		if r.RSI14 != nil {
			rsi = strconv.FormatFloat(*r.RSI14, 'f', 2, 64)
		}
		fmt.Printf("%-12s %s px=%.2f bull=%t bear=%t rsi=%s\n",
			r.Ticker, r.Date, r.Px, r.BullCross, r.BearCross, rsi)
	}
}
