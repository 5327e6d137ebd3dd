// Package store persists partitions and manifests under a local data root,
// mirroring the hive-style layout of the curated dataset:
//
//	<root>/curated/exchange=<X>/ticker=<S>/year=<Y>/part-000.parquet
//	<root>/features/exchange=<X>/ticker=<S>/year=<Y>/part-000.parquet
//	<root>/meta/manifests/<S>.json
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"stockpipe/internal/ports"
)

// Store implements the ports.PartitionStore and ports.ManifestStore interfaces
// on the local filesystem.
type Store struct {
	root   string
	logger ports.Logger
}

// Config holds configuration for the filesystem store.
type Config struct {
	Root   string
	Logger ports.Logger
}

// New creates a new filesystem store rooted at cfg.Root.
func New(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for store")
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: storage root is required", ports.ErrConfigurationError)
	}
	return &Store{root: cfg.Root, logger: cfg.Logger}, nil
}

func (s *Store) partitionPath(dataset, exchange, ticker string, year int) string {
	return filepath.Join(s.root, dataset,
		"exchange="+exchange,
		"ticker="+ticker,
		fmt.Sprintf("year=%d", year),
		"part-000.parquet")
}

func (s *Store) manifestPath(ticker string) string {
	return filepath.Join(s.root, "meta", "manifests", ticker+".json")
}

// ReportsDir returns the directory holding signal snapshot reports.
func (s *Store) ReportsDir() string {
	return filepath.Join(s.root, "meta", "reports")
}

// RunsDir returns the directory holding health-check run reports.
func (s *Store) RunsDir() string {
	return filepath.Join(s.root, "meta", "runs")
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return nil
}

var _ ports.PartitionStore = (*Store)(nil)
var _ ports.ManifestStore = (*Store)(nil)
