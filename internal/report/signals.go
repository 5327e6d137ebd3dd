// Package report renders the daily signals snapshot: the most recent feature
// row per ticker, sorted so firing signals surface first, written as CSV.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"stockpipe/internal/domain"
	"stockpipe/internal/ports"
)

// Row is one line of the snapshot.
type Row struct {
	Ticker        string
	Date          string
	Px            float64
	BullCross     bool
	BearCross     bool
	RSI14         *float64
	RSIOverbought bool
	RSIOversold   bool
}

// Service builds signal snapshot reports from the feature dataset.
type Service struct {
	store    ports.PartitionStore
	logger   ports.Logger
	exchange string
	outDir   string
	now      func() time.Time
}

// Config holds the report service dependencies.
type Config struct {
	Store    ports.PartitionStore
	Logger   ports.Logger
	Exchange string
	OutDir   string
	Now      func() time.Time
}

// New creates a new report service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Exchange == "" || cfg.OutDir == "" {
		return nil, fmt.Errorf("%w: exchange and output directory are required", ports.ErrConfigurationError)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{store: cfg.Store, logger: cfg.Logger, exchange: cfg.Exchange, outDir: cfg.OutDir, now: now}, nil
}

// Generate collects the latest feature row per ticker, writes the snapshot
// CSV, and returns its path with the rows it holds. Tickers without feature
// data are left out; a ticker whose partition cannot be read is logged and
// skipped rather than failing the report.
func (s *Service) Generate(ctx context.Context, tickers []string) (string, []Row, error) {
	var rows []Row
	for _, ticker := range tickers {
		last, err := s.latestRow(ctx, ticker)
		if err != nil {
			s.logger.Warn(ctx, "skipping ticker in report", map[string]interface{}{
				"ticker": ticker, "error": err.Error(),
			})
			continue
		}
		if last == nil {
			continue
		}
		rows = append(rows, Row{
			Ticker:        ticker,
			Date:          last.Date,
			Px:            last.Px,
			BullCross:     last.BullCross,
			BearCross:     last.BearCross,
			RSI14:         last.RSI14,
			RSIOverbought: last.RSIOverbought,
			RSIOversold:   last.RSIOversold,
		})
	}

	SortRows(rows)

	path := filepath.Join(s.outDir, domain.FormatDate(s.now())+"_signals.csv")
	if err := writeCSV(path, rows); err != nil {
		return "", nil, err
	}
	s.logger.Info(ctx, "signals report written", map[string]interface{}{
		"path": path, "rows": len(rows),
	})
	return path, rows, nil
}

// latestRow returns the most recent feature row for a ticker, trying the
// current year's partition first and falling back to the previous year's
// (early January, before the first recompute of the year). Nil when neither
// holds data.
func (s *Service) latestRow(ctx context.Context, ticker string) (*domain.FeatureRow, error) {
	year := s.now().Year()
	for _, y := range []int{year, year - 1} {
		rows, err := s.store.ReadFeatures(ctx, s.exchange, ticker, y)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
		return &rows[len(rows)-1], nil
	}
	return nil, nil
}

// SortRows orders the snapshot: firing signals first (bull cross, then bear
// cross, then RSI thresholds), ties broken by ticker.
func SortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.BullCross != b.BullCross {
			return a.BullCross
		}
		if a.BearCross != b.BearCross {
			return a.BearCross
		}
		if a.RSIOverbought != b.RSIOverbought {
			return a.RSIOverbought
		}
		if a.RSIOversold != b.RSIOversold {
			return a.RSIOversold
		}
		return a.Ticker < b.Ticker
	})
}

func writeCSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ticker", "date", "px", "bull_cross", "bear_cross", "rsi14", "rsi_overbought", "rsi_oversold"}); err != nil {
		return err
	}
	for _, r := range rows {
		rsi := ""
		if r.RSI14 != nil {
			rsi = strconv.FormatFloat(*r.RSI14, 'f', -1, 64)
		}
		if err := w.Write([]string{
			r.Ticker,
			r.Date,
			strconv.FormatFloat(r.Px, 'f', -1, 64),
			strconv.FormatBool(r.BullCross),
			strconv.FormatBool(r.BearCross),
			rsi,
			strconv.FormatBool(r.RSIOverbought),
			strconv.FormatBool(r.RSIOversold),
		}); err != nil {
			return err
		}
	}
	return w.Error()
}
