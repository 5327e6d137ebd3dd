package ports

import (
	"context"

	"stockpipe/internal/domain"
)

// PartitionStore reads and writes the yearly per-ticker columnar partitions.
// A partition that does not exist yet is an empty dataset: reads return
// (nil, nil), never an error. Writes replace the whole partition.
type PartitionStore interface {
	ReadBars(ctx context.Context, exchange, ticker string, year int) ([]domain.DailyBar, error)
	WriteBars(ctx context.Context, exchange, ticker string, year int, bars []domain.DailyBar) error
	ReadFeatures(ctx context.Context, exchange, ticker string, year int) ([]domain.FeatureRow, error)
	WriteFeatures(ctx context.Context, exchange, ticker string, year int, rows []domain.FeatureRow) error
}

// ManifestStore persists the per-ticker ingestion record.
type ManifestStore interface {
	// Read returns the manifest for a ticker, or nil when none exists.
	// A corrupt manifest is treated the same as a missing one: the next run
	// conservatively re-fetches and the merge dedup absorbs the overlap.
	Read(ctx context.Context, ticker string) (*domain.Manifest, error)
	// Write overwrites the manifest for m.Ticker.
	Write(ctx context.Context, m domain.Manifest) error
	// List returns every known manifest, for staleness reporting.
	List(ctx context.Context) ([]domain.Manifest, error)
}
