package usecase

import (
	"context"
	"fmt"
	"time"

	"NewsPulse/internal/domain/models"
	domrepo "NewsPulse/internal/domain/repository"
	"NewsPulse/internal/store"
	"NewsPulse/pkg/logger"
)

// FetchPricesUseCase pulls daily bars per ticker and merges them into the
// price table.
type FetchPricesUseCase struct {
	source  domrepo.PriceSource
	store   *store.PriceStore
	metrics domrepo.Metrics
	log     *logger.Logger
}

func NewFetchPricesUseCase(source domrepo.PriceSource, st *store.PriceStore, m domrepo.Metrics, log *logger.Logger) *FetchPricesUseCase {
	if m == nil {
		m = domrepo.NopMetrics{}
	}
	return &FetchPricesUseCase{source: source, store: st, metrics: m, log: log}
}

type FetchPricesParams struct {
	Tickers []string
	From    time.Time
	To      time.Time
}

type FetchPricesResult struct {
	Fetched       int
	Merged        int
	TickersFailed int
}

// Run fetches bars ticker by ticker; one failing ticker does not abort the
// others.
func (uc *FetchPricesUseCase) Run(ctx context.Context, p FetchPricesParams) (*FetchPricesResult, error) {
	if len(p.Tickers) == 0 {
		return nil, fmt.Errorf("at least one ticker required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}

	start := time.Now()
	var collected []models.PriceBar
	res := &FetchPricesResult{}

	for _, ticker := range p.Tickers {
		bars, err := uc.source.Fetch(ctx, ticker, p.From, p.To)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			res.TickersFailed++
			uc.metrics.RecordError("price_fetch")
			uc.log.Warn("price fetch failed, skipping ticker",
				logger.String("ticker", ticker),
				logger.Error(err))
			continue
		}
		collected = append(collected, bars...)
		uc.metrics.RecordFetched("prices", ticker, len(bars))
	}

	merged, err := uc.store.Merge(collected)
	if err != nil {
		return nil, fmt.Errorf("merge bars: %w", err)
	}
	uc.metrics.RecordMerged("prices", len(merged))
	uc.metrics.RecordLatency("fetch_prices", time.Since(start).Seconds())

	res.Fetched = len(collected)
	res.Merged = len(merged)
	uc.log.Info("price fetch complete",
		logger.Int("fetched", res.Fetched),
		logger.Int("merged_total", res.Merged),
		logger.Int("tickers_failed", res.TickersFailed))
	return res, nil
}
