package domain

// Manifest is the per-ticker ingestion record. MaxDate is the watermark:
// the next fetch window starts the day after it.
type Manifest struct {
	Ticker    string `json:"ticker"`
	Exchange  string `json:"exchange"`
	MinDate   string `json:"min_date"`
	MaxDate   string `json:"max_date"`
	Rows      int    `json:"rows"`
	UpdatedAt string `json:"updated_at"`
}

// NewManifest builds a manifest from the full known date set for a ticker.
// The date slice does not need to be sorted or deduplicated.
func NewManifest(ticker, exchange string, dates []string, updatedAt string) Manifest {
	m := Manifest{
		Ticker:    ticker,
		Exchange:  exchange,
		UpdatedAt: updatedAt,
	}
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		if m.MinDate == "" || d < m.MinDate {
			m.MinDate = d
		}
		if d > m.MaxDate {
			m.MaxDate = d
		}
	}
	m.Rows = len(seen)
	return m
}
