package repository

import (
	"context"
	"time"

	"NewsPulse/internal/domain/models"
)

// NewsSource fetches articles for one query over one date window.
// The only contract with the pipeline is "return zero or more records or fail".
type NewsSource interface {
	Fetch(ctx context.Context, query string, from, to time.Time) ([]models.Article, error)
}

// PriceSource fetches daily bars for one ticker over a date range.
type PriceSource interface {
	Fetch(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error)
}

// FeatureSink receives computed feature rows (optional export backend).
type FeatureSink interface {
	Store(ctx context.Context, rows []models.FeatureRow) error
	Close() error
}

// Metrics abstracts the pipeline health counters.
type Metrics interface {
	RecordFetched(kind, query string, n int)
	RecordMerged(kind string, n int)
	RecordDropped(reason string, n int)
	RecordChunkFallback()
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

// NopMetrics discards all observations. Used in tests and when metrics are
// not wired.
type NopMetrics struct{}

func (NopMetrics) RecordFetched(string, string, int) {}
func (NopMetrics) RecordMerged(string, int)          {}
func (NopMetrics) RecordDropped(string, int)         {}
func (NopMetrics) RecordChunkFallback()              {}
func (NopMetrics) RecordError(string)                {}
func (NopMetrics) RecordLatency(string, float64)     {}
