package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"stockpipe/internal/domain"
)

// Read returns the manifest for a ticker, or nil when none exists.
// A manifest that cannot be parsed is treated as absent: the next ingestion
// run re-fetches the backstop window and the merge dedup absorbs the overlap.
func (s *Store) Read(ctx context.Context, ticker string) (*domain.Manifest, error) {
	path := s.manifestPath(ticker)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.Warn(ctx, "corrupt manifest treated as absent", map[string]interface{}{
			"ticker": ticker,
			"path":   path,
			"error":  err.Error(),
		})
		return nil, nil
	}
	return &m, nil
}

// Write overwrites the manifest for m.Ticker.
func (s *Store) Write(ctx context.Context, m domain.Manifest) error {
	path := s.manifestPath(m.Ticker)
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest for %s: %w", m.Ticker, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// List returns every readable manifest, sorted by ticker.
// Corrupt entries are skipped with a warning.
func (s *Store) List(ctx context.Context) ([]domain.Manifest, error) {
	pattern := filepath.Join(s.root, "meta", "manifests", "*.json")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("list manifests: %w", err)
	}

	manifests := make([]domain.Manifest, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read manifest %s: %w", p, err)
		}
		var m domain.Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			s.logger.Warn(ctx, "skipping corrupt manifest", map[string]interface{}{
				"path":  p,
				"error": err.Error(),
			})
			continue
		}
		manifests = append(manifests, m)
	}
	sort.Slice(manifests, func(i, j int) bool { return manifests[i].Ticker < manifests[j].Ticker })
	return manifests, nil
}
