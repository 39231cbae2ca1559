package usecase

import (
	"context"
	"fmt"
	"time"

	domrepo "NewsPulse/internal/domain/repository"
	"NewsPulse/internal/features"
	"NewsPulse/internal/indicators"
	"NewsPulse/internal/store"
	"NewsPulse/pkg/logger"
)

// CombineUseCase builds the feature table: technical indicators from the
// price bars, daily sentiment from the clean articles, a causal left join
// of the two, and the next-day target.
type CombineUseCase struct {
	clean         *store.ArticleStore
	prices        *store.PriceStore
	featureStore  *store.FeatureStore
	sink          domrepo.FeatureSink // optional export backend
	generalTicker string
	metrics       domrepo.Metrics
	log           *logger.Logger
}

func NewCombineUseCase(
	clean *store.ArticleStore,
	prices *store.PriceStore,
	featureStore *store.FeatureStore,
	sink domrepo.FeatureSink,
	generalTicker string,
	m domrepo.Metrics,
	log *logger.Logger,
) *CombineUseCase {
	if m == nil {
		m = domrepo.NopMetrics{}
	}
	return &CombineUseCase{
		clean:         clean,
		prices:        prices,
		featureStore:  featureStore,
		sink:          sink,
		generalTicker: generalTicker,
		metrics:       m,
		log:           log,
	}
}

type CombineResult struct {
	PriceRows     int
	SentimentDays int
	FeatureRows   int
}

func (uc *CombineUseCase) Run(ctx context.Context) (*CombineResult, error) {
	start := time.Now()

	bars, err := uc.prices.Load()
	if err != nil {
		return nil, fmt.Errorf("load price bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("price table is empty, fetch prices first")
	}
	articles, err := uc.clean.Load()
	if err != nil {
		return nil, fmt.Errorf("load clean articles: %w", err)
	}

	rows := indicators.Enrich(bars)
	daily := features.Aggregate(articles)
	rows = features.Join(rows, daily, uc.generalTicker)
	rows = features.BuildTargets(rows)

	if len(rows) != len(bars) {
		return nil, fmt.Errorf("join changed row count: %d bars became %d rows", len(bars), len(rows))
	}

	if err := uc.featureStore.Save(rows); err != nil {
		return nil, fmt.Errorf("save feature table: %w", err)
	}
	if uc.sink != nil {
		if err := uc.sink.Store(ctx, rows); err != nil {
			// The CSV table is the source of truth; a sink failure is
			// reported but does not fail the stage.
			uc.metrics.RecordError("feature_sink")
			uc.log.Error("feature sink export failed", logger.Error(err))
		}
	}
	uc.metrics.RecordMerged("features", len(rows))
	uc.metrics.RecordLatency("combine", time.Since(start).Seconds())

	res := &CombineResult{
		PriceRows:     len(bars),
		SentimentDays: len(daily),
		FeatureRows:   len(rows),
	}
	uc.log.Info("feature table built",
		logger.Int("price_rows", res.PriceRows),
		logger.Int("sentiment_days", res.SentimentDays),
		logger.Int("feature_rows", res.FeatureRows))
	return res, nil
}
