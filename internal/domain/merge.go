package domain

import "sort"

// MergeBars combines an existing partition with newly fetched rows, keyed by
// date. The incoming rows are applied last, so on a shared date the fresh row
// wins. The result is sorted ascending with unique dates, which makes the
// read-merge-overwrite cycle idempotent under retries.
func MergeBars(existing, incoming []DailyBar) []DailyBar {
	byDate := make(map[string]DailyBar, len(existing)+len(incoming))
	for _, b := range existing {
		byDate[b.Date] = b
	}
	for _, b := range incoming {
		byDate[b.Date] = b
	}
	out := make([]DailyBar, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// MergeFeatureRows is MergeBars for the feature dataset.
func MergeFeatureRows(existing, incoming []FeatureRow) []FeatureRow {
	byDate := make(map[string]FeatureRow, len(existing)+len(incoming))
	for _, r := range existing {
		byDate[r.Date] = r
	}
	for _, r := range incoming {
		byDate[r.Date] = r
	}
	out := make([]FeatureRow, 0, len(byDate))
	for _, r := range byDate {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
