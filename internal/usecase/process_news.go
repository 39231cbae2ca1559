package usecase

import (
	"context"
	"fmt"
	"time"

	"NewsPulse/internal/domain/models"
	domrepo "NewsPulse/internal/domain/repository"
	"NewsPulse/internal/sentiment"
	"NewsPulse/internal/store"
	"NewsPulse/internal/textproc"
	"NewsPulse/internal/translate"
	"NewsPulse/pkg/logger"
)

// ProcessNewsUseCase turns the raw article table into the clean one:
// detect language, drop blacklisted and garbled articles, translate the
// rest into the target language, and score sentiment on the translated
// text. The clean table is derived, so each run rebuilds it wholesale.
type ProcessNewsUseCase struct {
	raw        *store.ArticleStore
	clean      *store.ArticleStore
	translator *translate.Translator
	scorer     *sentiment.Scorer
	filterCfg  textproc.FilterConfig
	metrics    domrepo.Metrics
	log        *logger.Logger
}

func NewProcessNewsUseCase(
	raw, clean *store.ArticleStore,
	translator *translate.Translator,
	scorer *sentiment.Scorer,
	filterCfg textproc.FilterConfig,
	m domrepo.Metrics,
	log *logger.Logger,
) *ProcessNewsUseCase {
	if m == nil {
		m = domrepo.NopMetrics{}
	}
	return &ProcessNewsUseCase{
		raw:        raw,
		clean:      clean,
		translator: translator,
		scorer:     scorer,
		filterCfg:  filterCfg,
		metrics:    m,
		log:        log,
	}
}

type ProcessNewsResult struct {
	Loaded          int
	DroppedLanguage int
	DroppedJunk     int
	Translated      int
	Degraded        int
	Skipped         int
}

func (uc *ProcessNewsUseCase) Run(ctx context.Context) (*ProcessNewsResult, error) {
	start := time.Now()

	articles, err := uc.raw.Load()
	if err != nil {
		return nil, fmt.Errorf("load raw articles: %w", err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("raw article table is empty, fetch news first")
	}

	filtered := textproc.Filter(articles, uc.filterCfg)
	uc.metrics.RecordDropped("language", filtered.DroppedLanguage)
	uc.metrics.RecordDropped("junk", filtered.DroppedJunk)

	res := &ProcessNewsResult{
		Loaded:          len(articles),
		DroppedLanguage: filtered.DroppedLanguage,
		DroppedJunk:     filtered.DroppedJunk,
	}

	out := filtered.Kept
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr, err := uc.translator.Translate(ctx, out[i].FullText(), out[i].DetectedLang)
		if err != nil {
			return nil, fmt.Errorf("translate article %q: %w", out[i].Title, err)
		}
		out[i].TranslatedText = tr.Text
		out[i].TranslationStatus = tr.Status
		for f := 0; f < tr.ChunksFallback; f++ {
			uc.metrics.RecordChunkFallback()
		}
		out[i].Sentiment = uc.scorer.Score(out[i].TranslatedText)
	}

	for _, a := range out {
		switch a.TranslationStatus {
		case models.TranslationOK:
			res.Translated++
		case models.TranslationDegraded:
			res.Degraded++
		case models.TranslationSkipped:
			res.Skipped++
		}
	}

	if err := uc.clean.Replace(out); err != nil {
		return nil, fmt.Errorf("write clean articles: %w", err)
	}
	uc.metrics.RecordLatency("process_news", time.Since(start).Seconds())

	uc.log.Info("news processing complete",
		logger.Int("loaded", res.Loaded),
		logger.Int("dropped_language", res.DroppedLanguage),
		logger.Int("dropped_junk", res.DroppedJunk),
		logger.Int("translated", res.Translated),
		logger.Int("degraded", res.Degraded),
		logger.Int("skipped", res.Skipped))
	return res, nil
}
