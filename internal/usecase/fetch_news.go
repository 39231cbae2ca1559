package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"NewsPulse/internal/domain/models"
	domrepo "NewsPulse/internal/domain/repository"
	"NewsPulse/internal/fetch"
	"NewsPulse/internal/store"
	"NewsPulse/pkg/logger"
	"NewsPulse/pkg/util"
)

// Article type tags. General market news is stored under a pseudo ticker
// so the combine stage can join it onto every symbol by date.
const (
	ArticleTypeCompany = "company"
	ArticleTypeGeneral = "general"
)

// FetchNewsUseCase pulls ticker and market-wide news in date windows and
// merges them into the raw article table.
type FetchNewsUseCase struct {
	source  domrepo.NewsSource
	store   *store.ArticleStore
	metrics domrepo.Metrics
	log     *logger.Logger

	windowDays    int
	generalQuery  string
	generalTicker string
}

type FetchNewsConfig struct {
	WindowDays    int
	GeneralQuery  string
	GeneralTicker string
}

func NewFetchNewsUseCase(source domrepo.NewsSource, st *store.ArticleStore, m domrepo.Metrics, log *logger.Logger, cfg FetchNewsConfig) *FetchNewsUseCase {
	if m == nil {
		m = domrepo.NopMetrics{}
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 10
	}
	return &FetchNewsUseCase{
		source:        source,
		store:         st,
		metrics:       m,
		log:           log,
		windowDays:    cfg.WindowDays,
		generalQuery:  cfg.GeneralQuery,
		generalTicker: cfg.GeneralTicker,
	}
}

type FetchNewsParams struct {
	Tickers []string
	From    time.Time
	To      time.Time
}

type FetchNewsResult struct {
	Fetched       int
	Merged        int
	WindowsFailed int
}

// Run fetches each ticker's query plus the general market query over every
// date window, then merges everything into the raw table at once. A failed
// window is logged and skipped; an exhausted request budget stops fetching
// but still merges what was collected.
func (uc *FetchNewsUseCase) Run(ctx context.Context, p FetchNewsParams) (*FetchNewsResult, error) {
	if len(p.Tickers) == 0 {
		return nil, fmt.Errorf("at least one ticker required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}

	start := time.Now()
	windows := util.SplitWindows(p.From, p.To, uc.windowDays)

	type job struct {
		query  string
		ticker string
		kind   string
	}
	jobs := make([]job, 0, len(p.Tickers)+1)
	for _, t := range p.Tickers {
		jobs = append(jobs, job{query: t, ticker: t, kind: ArticleTypeCompany})
	}
	if uc.generalQuery != "" {
		jobs = append(jobs, job{query: uc.generalQuery, ticker: uc.generalTicker, kind: ArticleTypeGeneral})
	}

	var collected []models.Article
	res := &FetchNewsResult{}

fetching:
	for _, j := range jobs {
		for _, w := range windows {
			articles, err := uc.source.Fetch(ctx, j.query, w.From, w.To)
			if err != nil {
				if errors.Is(err, fetch.ErrBudgetExhausted) {
					uc.log.Warn("news request budget exhausted, stopping early",
						logger.String("query", j.query))
					break fetching
				}
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				res.WindowsFailed++
				uc.metrics.RecordError("news_fetch")
				uc.log.Warn("news window failed, skipping",
					logger.String("query", j.query),
					logger.String("from", util.FormatDay(w.From)),
					logger.String("to", util.FormatDay(w.To)),
					logger.Error(err))
				continue
			}
			for i := range articles {
				articles[i].Ticker = j.ticker
				articles[i].Type = j.kind
			}
			collected = append(collected, articles...)
			uc.metrics.RecordFetched("news", j.query, len(articles))
		}
	}

	merged, err := uc.store.Merge(collected)
	if err != nil {
		return nil, fmt.Errorf("merge articles: %w", err)
	}
	uc.metrics.RecordMerged("news", len(merged))
	uc.metrics.RecordLatency("fetch_news", time.Since(start).Seconds())

	res.Fetched = len(collected)
	res.Merged = len(merged)
	uc.log.Info("news fetch complete",
		logger.Int("fetched", res.Fetched),
		logger.Int("merged_total", res.Merged),
		logger.Int("windows_failed", res.WindowsFailed))
	return res, nil
}
