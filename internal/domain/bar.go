package domain

import "time"

// DateLayout is the ISO calendar-date format used throughout the pipeline.
// Dates are kept as strings in stored rows: lexicographic order equals
// chronological order, and the parquet schema stays flat.
const DateLayout = "2006-01-02"

// DailyBar represents one end-of-day OHLCV bar for a ticker.
type DailyBar struct {
	Date          string   `parquet:"date" json:"date"`
	Open          float64  `parquet:"open" json:"open"`
	High          float64  `parquet:"high" json:"high"`
	Low           float64  `parquet:"low" json:"low"`
	Close         float64  `parquet:"close" json:"close"`
	AdjustedClose *float64 `parquet:"adjusted_close,optional" json:"adjusted_close"`
	Volume        int64    `parquet:"volume" json:"volume"`
	Ticker        string   `parquet:"ticker" json:"ticker,omitempty"`
	Exchange      string   `parquet:"exchange" json:"exchange,omitempty"`
}

// Price returns the adjusted close where present, falling back to the raw close.
func (b DailyBar) Price() float64 {
	if b.AdjustedClose != nil {
		return *b.AdjustedClose
	}
	return b.Close
}

// ParseDate parses an ISO calendar date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a time as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Midnight truncates a time to its calendar date at UTC midnight.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// YearOf returns the calendar year of an ISO date string.
// The date must already be validated; malformed input yields 0.
func YearOf(date string) int {
	t, err := ParseDate(date)
	if err != nil {
		return 0
	}
	return t.Year()
}
