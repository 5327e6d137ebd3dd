// Package ingest implements the incremental daily-bar ingestion pipeline:
// per-ticker watermark tracking, range-limited fetch, idempotent merge into
// yearly partitions, and manifest recomputation.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stockpipe/internal/domain"
	"stockpipe/internal/ports"
)

// Service orchestrates ingestion for a batch of tickers. Tickers are fully
// independent; a failure for one is logged and does not affect the rest.
type Service struct {
	provider  ports.BarProvider
	store     ports.PartitionStore
	manifests ports.ManifestStore
	logger    ports.Logger
	exchange  string
	backstop  int
	now       func() time.Time
}

// Config holds the ingestion service dependencies and parameters.
type Config struct {
	Provider  ports.BarProvider
	Store     ports.PartitionStore
	Manifests ports.ManifestStore
	Logger    ports.Logger
	Exchange  string
	// BackstopDays bounds the first fetch for a ticker with no manifest
	// (default 7), so a new ticker does not trigger a full-history backfill.
	BackstopDays int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New creates a new ingestion service.
func New(cfg Config) (*Service, error) {
	if cfg.Provider == nil || cfg.Store == nil || cfg.Manifests == nil {
		return nil, fmt.Errorf("provider, store and manifests are required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Exchange == "" {
		return nil, fmt.Errorf("%w: exchange is required", ports.ErrConfigurationError)
	}
	backstop := cfg.BackstopDays
	if backstop <= 0 {
		backstop = 7
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		provider:  cfg.Provider,
		store:     cfg.Store,
		manifests: cfg.Manifests,
		logger:    cfg.Logger,
		exchange:  cfg.Exchange,
		backstop:  backstop,
		now:       now,
	}, nil
}

// Status classifies the outcome of one ticker's run.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// SymbolResult is the typed per-ticker outcome of a run.
type SymbolResult struct {
	Ticker    string
	Status    Status
	RowsAdded int
	Reason    string
	Err       error
}

// Report aggregates the per-ticker results of one batch run.
type Report struct {
	Results   []SymbolResult
	Updated   int
	Skipped   int
	Failed    int
	RowsAdded int
}

// Run ingests every ticker in order and returns the batch report.
// The batch never aborts on a single ticker's failure.
func (s *Service) Run(ctx context.Context, tickers []string) Report {
	var rep Report
	for _, ticker := range tickers {
		res := s.runTicker(ctx, ticker)
		rep.Results = append(rep.Results, res)
		switch res.Status {
		case StatusUpdated:
			rep.Updated++
			rep.RowsAdded += res.RowsAdded
			s.logger.Info(ctx, "ticker updated", map[string]interface{}{
				"ticker": res.Ticker, "rows": res.RowsAdded, "range": res.Reason,
			})
		case StatusSkipped:
			rep.Skipped++
			s.logger.Info(ctx, "ticker skipped", map[string]interface{}{
				"ticker": res.Ticker, "reason": res.Reason,
			})
		case StatusFailed:
			rep.Failed++
			s.logger.Error(ctx, res.Err, "ticker failed", map[string]interface{}{
				"ticker": res.Ticker,
			})
		}
	}
	s.logger.Info(ctx, "ingestion complete", map[string]interface{}{
		"tickers": len(tickers), "updated": rep.Updated,
		"skipped": rep.Skipped, "failed": rep.Failed, "rows_added": rep.RowsAdded,
	})
	return rep
}

func (s *Service) runTicker(ctx context.Context, ticker string) SymbolResult {
	today := domain.Midnight(s.now())
	// The in-progress trading day is never requested: partial-day bars would
	// poison the partition.
	yesterday := today.AddDate(0, 0, -1)

	start := s.windowStart(ctx, ticker, yesterday)
	if start.After(yesterday) {
		return SymbolResult{Ticker: ticker, Status: StatusSkipped, Reason: "up-to-date"}
	}

	fetched, err := s.provider.FetchRange(ctx, ticker, start, yesterday)
	if err != nil {
		return SymbolResult{Ticker: ticker, Status: StatusFailed, Err: err}
	}

	bars := normalize(fetched, ticker, s.exchange, today)
	if len(bars) == 0 {
		return SymbolResult{Ticker: ticker, Status: StatusSkipped, Reason: "no new rows"}
	}

	if err := s.mergeByYear(ctx, ticker, bars); err != nil {
		return SymbolResult{Ticker: ticker, Status: StatusFailed, Err: err}
	}

	// The manifest is written only after a successful merge: a crash before
	// this point leaves the watermark behind, and the next run re-fetches the
	// unmerged range relying on merge dedup.
	if err := s.rebuildManifest(ctx, ticker, bars, today); err != nil {
		return SymbolResult{Ticker: ticker, Status: StatusFailed, Err: err}
	}

	return SymbolResult{
		Ticker:    ticker,
		Status:    StatusUpdated,
		RowsAdded: len(bars),
		Reason:    fmt.Sprintf("%s..%s", bars[0].Date, bars[len(bars)-1].Date),
	}
}

// windowStart computes the first date to fetch: the day after the watermark,
// or the backstop window when no usable manifest exists.
func (s *Service) windowStart(ctx context.Context, ticker string, yesterday time.Time) time.Time {
	m, err := s.manifests.Read(ctx, ticker)
	if err != nil {
		s.logger.Warn(ctx, "manifest read failed, treating as absent", map[string]interface{}{
			"ticker": ticker, "error": err.Error(),
		})
		m = nil
	}
	if m != nil && m.MaxDate != "" {
		if watermark, err := domain.ParseDate(m.MaxDate); err == nil {
			return watermark.AddDate(0, 0, 1)
		}
		s.logger.Warn(ctx, "unparseable watermark, treating manifest as absent", map[string]interface{}{
			"ticker": ticker, "max_date": m.MaxDate,
		})
	}
	return yesterday.AddDate(0, 0, -s.backstop)
}

// mergeByYear groups the normalized rows by calendar year and runs the
// read-merge-dedup-overwrite cycle against each year's partition.
func (s *Service) mergeByYear(ctx context.Context, ticker string, bars []domain.DailyBar) error {
	byYear := make(map[int][]domain.DailyBar)
	for _, b := range bars {
		y := domain.YearOf(b.Date)
		byYear[y] = append(byYear[y], b)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		existing, err := s.store.ReadBars(ctx, s.exchange, ticker, y)
		if err != nil {
			return fmt.Errorf("read year %d: %w", y, err)
		}
		merged := domain.MergeBars(existing, byYear[y])
		if err := s.store.WriteBars(ctx, s.exchange, ticker, y, merged); err != nil {
			return fmt.Errorf("write year %d: %w", y, err)
		}
	}
	return nil
}

// rebuildManifest regathers the known date set from the two most recent
// partitions (older partitions are immaterial to the watermark) union the
// newly merged dates, and overwrites the manifest.
func (s *Service) rebuildManifest(ctx context.Context, ticker string, merged []domain.DailyBar, today time.Time) error {
	seen := make(map[string]struct{})
	for _, y := range []int{today.Year(), today.Year() - 1} {
		rows, err := s.store.ReadBars(ctx, s.exchange, ticker, y)
		if err != nil {
			return fmt.Errorf("rebuild manifest for %s: %w", ticker, err)
		}
		for _, r := range rows {
			seen[r.Date] = struct{}{}
		}
	}
	for _, b := range merged {
		seen[b.Date] = struct{}{}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	m := domain.NewManifest(ticker, s.exchange, dates, domain.FormatDate(today))
	if err := s.manifests.Write(ctx, m); err != nil {
		return fmt.Errorf("write manifest for %s: %w", ticker, err)
	}
	return nil
}

// normalize coerces fetched rows to the canonical bar schema: validated dates,
// duplicates dropped by date, ascending order, ticker/exchange attached, and
// any row dated after the processing date discarded (clock-skew guard).
func normalize(fetched []domain.DailyBar, ticker, exchange string, today time.Time) []domain.DailyBar {
	cutoff := domain.FormatDate(today)
	seen := make(map[string]struct{}, len(fetched))
	out := make([]domain.DailyBar, 0, len(fetched))
	for _, b := range fetched {
		if _, err := domain.ParseDate(b.Date); err != nil {
			continue
		}
		if b.Date > cutoff {
			continue
		}
		if _, dup := seen[b.Date]; dup {
			continue
		}
		seen[b.Date] = struct{}{}
		b.Ticker = ticker
		b.Exchange = exchange
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
