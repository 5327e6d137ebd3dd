// Command grab_signals copies the newest signals report out of the data root
// into ./signals.csv, for quick local inspection.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"stockpipe/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	pattern := filepath.Join(cfg.DataRoot, "meta", "reports", "*_signals.csv")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		log.Fatalf("FATAL: Failed to list reports: %v", err)
	}
	fmt.Printf("found %d reports\n", len(paths))
	if len(paths) == 0 {
		return
	}

	// Report names start with an ISO date, so the lexicographic maximum is
	// the most recent.
	sort.Strings(paths)
	latest := paths[len(paths)-1]

	src, err := os.Open(latest)
	if err != nil {
		log.Fatalf("FATAL: Failed to open %s: %v", latest, err)
	}
	defer src.Close()

	dst, err := os.Create("signals.csv")
	if err != nil {
		log.Fatalf("FATAL: Failed to create signals.csv: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		log.Fatalf("FATAL: Failed to copy %s: %v", latest, err)
	}
	fmt.Println("downloaded: signals.csv")
}
