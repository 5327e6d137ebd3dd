// Package features derives rolling technical indicators from the stored bar
// history and folds them into the feature dataset, one current-year partition
// per ticker.
package features

import (
	"context"
	"fmt"
	"time"

	"stockpipe/internal/domain"
	"stockpipe/internal/ports"
)

const (
	smaFastPeriod = 20
	smaSlowPeriod = 50
	emaPeriod     = 20
	rsiPeriod     = 14
	rsiOverbought = 70.0
	rsiOversold   = 30.0
)

// Engine recomputes the feature dataset for tickers. It reads bar partitions
// and owns all writes to feature partitions; it shares no state with the
// ingestion pipeline.
type Engine struct {
	store    ports.PartitionStore
	logger   ports.Logger
	exchange string
	now      func() time.Time
}

// Config holds the feature engine dependencies.
type Config struct {
	Store    ports.PartitionStore
	Logger   ports.Logger
	Exchange string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New creates a new feature engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Exchange == "" {
		return nil, fmt.Errorf("%w: exchange is required", ports.ErrConfigurationError)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{store: cfg.Store, logger: cfg.Logger, exchange: cfg.Exchange, now: now}, nil
}

// Recompute rebuilds the current-year feature partition for a ticker and
// returns the number of rows the partition holds afterwards. The previous
// year's bars are loaded purely to warm up the rolling windows; rows outside
// the current year are discarded before the merge. Absent history yields zero
// rows, not an error.
func (e *Engine) Recompute(ctx context.Context, ticker string) (int, error) {
	year := e.now().Year()

	var bars []domain.DailyBar
	for _, y := range []int{year - 1, year} {
		rows, err := e.store.ReadBars(ctx, e.exchange, ticker, y)
		if err != nil {
			return 0, fmt.Errorf("load bars for %s year %d: %w", ticker, y, err)
		}
		bars = append(bars, rows...)
	}
	bars = domain.MergeBars(nil, bars)
	if len(bars) == 0 {
		return 0, nil
	}

	rows := Compute(bars)

	cutoff := fmt.Sprintf("%d-01-01", year)
	var current []domain.FeatureRow
	for _, r := range rows {
		if r.Date >= cutoff {
			current = append(current, r)
		}
	}
	if len(current) == 0 {
		return 0, nil
	}

	existing, err := e.store.ReadFeatures(ctx, e.exchange, ticker, year)
	if err != nil {
		return 0, fmt.Errorf("read features for %s year %d: %w", ticker, year, err)
	}
	merged := domain.MergeFeatureRows(existing, current)
	if err := e.store.WriteFeatures(ctx, e.exchange, ticker, year, merged); err != nil {
		return 0, fmt.Errorf("write features for %s year %d: %w", ticker, year, err)
	}
	return len(merged), nil
}

// Compute derives one FeatureRow per bar over the full series. Inputs must be
// sorted ascending with unique dates.
func Compute(bars []domain.DailyBar) []domain.FeatureRow {
	px := make([]float64, len(bars))
	for i, b := range bars {
		px[i] = b.Price()
	}

	sma20 := SMA(px, smaFastPeriod)
	sma50 := SMA(px, smaSlowPeriod)
	ema20 := EMA(px, emaPeriod)
	rsi14 := RSI(px, rsiPeriod)
	macdLine, macdSignal, macdHist := MACD(px)
	bull, bear := CrossFlags(sma20, sma50)

	rows := make([]domain.FeatureRow, len(bars))
	for i, b := range bars {
		rows[i] = domain.FeatureRow{
			Date:       b.Date,
			Ticker:     b.Ticker,
			Exchange:   b.Exchange,
			Px:         px[i],
			SMA20:      sma20[i],
			SMA50:      sma50[i],
			EMA20:      ema20[i],
			RSI14:      rsi14[i],
			MACD:       macdLine[i],
			MACDSignal: macdSignal[i],
			MACDHist:   macdHist[i],
			BullCross:  bull[i],
			BearCross:  bear[i],
		}
		if rsi14[i] != nil {
			rows[i].RSIOverbought = *rsi14[i] > rsiOverbought
			rows[i].RSIOversold = *rsi14[i] < rsiOversold
		}
	}
	return rows
}
