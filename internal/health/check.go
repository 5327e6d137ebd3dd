// Package health compares each ticker's watermark against the trading
// calendar and reports staleness.
package health

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

// Statuses, from healthy to worst.
const (
	StatusOK      = "ok"
	StatusStale1d = "stale-1d"
	StatusStale   = "stale"
	StatusNoData  = "no-data"
)

// Row is one ticker's staleness assessment.
type Row struct {
	Ticker     string
	MaxDate    string
	DaysBehind int
	Status     string
}

// Summary is the outcome of one health check run.
type Summary struct {
	Rows       []Row
	Path       string
	StaleCount int // tickers more than one day behind
}

// Checker reads manifests and reports how far each ticker lags the last
// completed trading day.
type Checker struct {
	manifests ports.ManifestStore
	logger    ports.Logger
	outDir    string
	now       func() time.Time
}

// Config holds the health checker dependencies.
type Config struct {
	Manifests ports.ManifestStore
	Logger    ports.Logger
	OutDir    string
	Now       func() time.Time
}

// New creates a new health checker.
func New(cfg Config) (*Checker, error) {
	if cfg.Manifests == nil {
		return nil, fmt.Errorf("manifest store is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.OutDir == "" {
		return nil, fmt.Errorf("%w: output directory is required", ports.ErrConfigurationError)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Checker{manifests: cfg.Manifests, logger: cfg.Logger, outDir: cfg.OutDir, now: now}, nil
}

// LastBusinessDay walks a date back to the nearest weekday.
// Simple Mon-Fri calendar; exchange holidays are not modelled.
func LastBusinessDay(d time.Time) time.Time {
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// Run assesses every manifest against the last completed trading day and
// writes the run report CSV.
func (c *Checker) Run(ctx context.Context) (Summary, error) {
	today := domain.Midnight(c.now())
	target := LastBusinessDay(today.AddDate(0, 0, -1))

	manifests, err := c.manifests.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list manifests: %w", err)
	}

	var sum Summary
	for _, m := range manifests {
		row := Row{Ticker: m.Ticker, MaxDate: m.MaxDate}
		maxDate, perr := domain.ParseDate(m.MaxDate)
		if m.MaxDate == "" || perr != nil {
			row.Status = StatusNoData
			sum.Rows = append(sum.Rows, row)
			continue
		}
		row.DaysBehind = int(target.Sub(maxDate).Hours() / 24)
		switch {
		case row.DaysBehind <= 0:
			row.Status = StatusOK
		case row.DaysBehind == 1:
			row.Status = StatusStale1d
		default:
			row.Status = StatusStale
		}
		if row.DaysBehind > 1 {
			sum.StaleCount++
		}
		sum.Rows = append(sum.Rows, row)
	}

	sort.Slice(sum.Rows, func(i, j int) bool {
		if sum.Rows[i].Status != sum.Rows[j].Status {
			return sum.Rows[i].Status < sum.Rows[j].Status
		}
		return sum.Rows[i].Ticker < sum.Rows[j].Ticker
	})

	sum.Path = filepath.Join(c.outDir, domain.FormatDate(today)+"_health.csv")
	if err := writeCSV(sum.Path, sum.Rows); err != nil {
		return Summary{}, err
	}

	c.logger.Info(ctx, "health check complete", map[string]interface{}{
		"tickers": len(sum.Rows), "path": sum.Path,
	})
	if sum.StaleCount > 0 {
		c.logger.Warn(ctx, "tickers more than one day behind", map[string]interface{}{
			"count": sum.StaleCount,
		})
	}
	return sum, nil
}

func writeCSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create runs directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ticker", "max_date", "days_behind", "status"}); err != nil {
		return err
	}
	for _, r := range rows {
		behind := ""
		if r.Status != StatusNoData {
			behind = strconv.Itoa(r.DaysBehind)
		}
		if err := w.Write([]string{r.Ticker, r.MaxDate, behind, r.Status}); err != nil {
			return err
		}
	}
	return w.Error()
}
