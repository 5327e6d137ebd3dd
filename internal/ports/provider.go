package ports

import (
	"context"
	"time"

	"stockpipe/internal/domain"
)

// BarProvider fetches end-of-day bars from the external price API.
type BarProvider interface {
	// FetchRange returns the bars for the closed date range [from, to],
	// ordered ascending by date. A window with no trading days (weekend,
	// holiday) yields an empty slice, not an error. Implementations retry
	// rate-limit responses with bounded backoff before giving up.
	FetchRange(ctx context.Context, symbol string, from, to time.Time) ([]domain.DailyBar, error)
}
