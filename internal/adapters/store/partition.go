package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/parquet-go/parquet-go"

	"stockpipe/internal/domain"
)

// ReadBars reads the bar partition for (exchange, ticker, year).
// A partition that does not exist yet is an empty dataset.
func (s *Store) ReadBars(ctx context.Context, exchange, ticker string, year int) ([]domain.DailyBar, error) {
	return readPartition[domain.DailyBar](s.partitionPath("curated", exchange, ticker, year))
}

// WriteBars overwrites the bar partition for (exchange, ticker, year).
func (s *Store) WriteBars(ctx context.Context, exchange, ticker string, year int, bars []domain.DailyBar) error {
	return writePartition(s.partitionPath("curated", exchange, ticker, year), bars)
}

// ReadFeatures reads the feature partition for (exchange, ticker, year).
func (s *Store) ReadFeatures(ctx context.Context, exchange, ticker string, year int) ([]domain.FeatureRow, error) {
	return readPartition[domain.FeatureRow](s.partitionPath("features", exchange, ticker, year))
}

// WriteFeatures overwrites the feature partition for (exchange, ticker, year).
func (s *Store) WriteFeatures(ctx context.Context, exchange, ticker string, year int, rows []domain.FeatureRow) error {
	return writePartition(s.partitionPath("features", exchange, ticker, year), rows)
}

func readPartition[T any](path string) ([]T, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("read partition %s: %w", path, err)
	}
	return rows, nil
}

func writePartition[T any](path string, rows []T) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write partition %s: %w", path, err)
	}
	return nil
}
