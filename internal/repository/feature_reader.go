package repository

import (
	"sort"
	"time"

	"NewsPulse/internal/domain/models"
	"NewsPulse/internal/store"
)

// FeatureReader serves the persisted feature table to the HTTP API. Rows
// are loaded per request; the combined table is small enough that a read
// cache would only hide staleness after a pipeline re-run.
type FeatureReader struct {
	features *store.FeatureStore
}

func NewFeatureReader(features *store.FeatureStore) *FeatureReader {
	return &FeatureReader{features: features}
}

// Features returns rows for ticker inside [from, to], most recent first,
// capped at limit. Zero time bounds mean unbounded.
func (r *FeatureReader) Features(ticker string, from, to time.Time, limit int) ([]models.FeatureRow, error) {
	rows, err := r.features.Load()
	if err != nil {
		return nil, err
	}
	out := make([]models.FeatureRow, 0, limit)
	for _, row := range rows {
		if row.Ticker != ticker {
			continue
		}
		if !from.IsZero() && row.Date.Before(from) {
			continue
		}
		if !to.IsZero() && row.Date.After(to) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Sentiment returns the per-day sentiment series for ticker, oldest first.
func (r *FeatureReader) Sentiment(ticker string, from, to time.Time) ([]models.DailySentiment, error) {
	rows, err := r.Features(ticker, from, to, 0)
	if err != nil {
		return nil, err
	}
	out := make([]models.DailySentiment, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.DailySentiment{
			Ticker:    row.Ticker,
			Date:      row.Date,
			Sentiment: row.Sentiment,
			Count:     int(row.NewsCount),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Tickers lists the distinct tickers present in the feature table.
func (r *FeatureReader) Tickers() ([]string, error) {
	rows, err := r.features.Load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, row := range rows {
		if _, ok := seen[row.Ticker]; ok {
			continue
		}
		seen[row.Ticker] = struct{}{}
		out = append(out, row.Ticker)
	}
	sort.Strings(out)
	return out, nil
}
