package usecase

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"NewsPulse/internal/domain/models"
	"NewsPulse/internal/scaler"
	"NewsPulse/internal/sentiment"
	"NewsPulse/internal/store"
	"NewsPulse/internal/textproc"
	"NewsPulse/internal/translate"
	"NewsPulse/pkg/logger"
)

type stubNewsSource struct {
	calls     int
	failEvery int // every Nth call fails
	perWindow int
}

func (s *stubNewsSource) Fetch(_ context.Context, query string, from, _ time.Time) ([]models.Article, error) {
	s.calls++
	if s.failEvery > 0 && s.calls%s.failEvery == 0 {
		return nil, fmt.Errorf("window failed")
	}
	out := make([]models.Article, s.perWindow)
	for i := range out {
		out[i] = models.Article{
			Title:       fmt.Sprintf("%s article %d window %s", query, i, from.Format("2006-01-02")),
			PublishedAt: from.Add(time.Duration(i) * time.Hour),
			Query:       query,
		}
	}
	return out, nil
}

type stubPriceSource struct {
	bars map[string][]models.PriceBar
}

func (s *stubPriceSource) Fetch(_ context.Context, ticker string, _, _ time.Time) ([]models.PriceBar, error) {
	bars, ok := s.bars[ticker]
	if !ok {
		return nil, fmt.Errorf("unknown ticker %s", ticker)
	}
	return bars, nil
}

type echoProvider struct{}

func (echoProvider) Name() string { return "echo" }
func (echoProvider) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func mkBars(ticker string, n int, base float64) []models.PriceBar {
	out := make([]models.PriceBar, n)
	for i := range out {
		out[i] = models.PriceBar{
			Ticker: ticker,
			Date:   day(1).AddDate(0, 0, i),
			Open:   base, High: base + 1, Low: base - 1,
			Close:  base + float64(i%5) - 2,
			Volume: 1000,
		}
	}
	return out
}

func TestFetchNewsSkipsFailedWindows(t *testing.T) {
	dir := t.TempDir()
	src := &stubNewsSource{perWindow: 2, failEvery: 3}
	uc := NewFetchNewsUseCase(src,
		store.NewArticleStore(filepath.Join(dir, "news.csv")),
		nil, logger.Nop(),
		FetchNewsConfig{WindowDays: 10, GeneralQuery: "stock market", GeneralTicker: "GENERAL"})

	res, err := uc.Run(context.Background(), FetchNewsParams{
		Tickers: []string{"AAPL"},
		From:    day(1),
		To:      day(25), // 3 windows per query, 2 queries
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.WindowsFailed != 2 {
		t.Fatalf("expected 2 failed windows, got %d", res.WindowsFailed)
	}
	if res.Fetched != 8 {
		t.Fatalf("expected 8 fetched articles, got %d", res.Fetched)
	}
	if res.Merged != 8 {
		t.Fatalf("expected 8 merged articles, got %d", res.Merged)
	}
}

func TestFetchNewsTagsGeneralQuery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "news.csv")
	uc := NewFetchNewsUseCase(&stubNewsSource{perWindow: 1},
		store.NewArticleStore(path),
		nil, logger.Nop(),
		FetchNewsConfig{WindowDays: 30, GeneralQuery: "economy", GeneralTicker: "GENERAL"})

	if _, err := uc.Run(context.Background(), FetchNewsParams{
		Tickers: []string{"AAPL"}, From: day(1), To: day(5),
	}); err != nil {
		t.Fatalf("run: %v", err)
	}

	articles, err := store.NewArticleStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	byTicker := map[string]string{}
	for _, a := range articles {
		byTicker[a.Ticker] = a.Type
	}
	if byTicker["AAPL"] != ArticleTypeCompany {
		t.Fatalf("company articles mistagged: %v", byTicker)
	}
	if byTicker["GENERAL"] != ArticleTypeGeneral {
		t.Fatalf("general articles mistagged: %v", byTicker)
	}
}

func TestFetchPricesSkipsFailedTickers(t *testing.T) {
	dir := t.TempDir()
	src := &stubPriceSource{bars: map[string][]models.PriceBar{
		"AAPL": mkBars("AAPL", 3, 100),
	}}
	uc := NewFetchPricesUseCase(src,
		store.NewPriceStore(filepath.Join(dir, "bars.csv")),
		nil, logger.Nop())

	res, err := uc.Run(context.Background(), FetchPricesParams{
		Tickers: []string{"AAPL", "NOPE"}, From: day(1), To: day(10),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.TickersFailed != 1 {
		t.Fatalf("expected 1 failed ticker, got %d", res.TickersFailed)
	}
	if res.Merged != 3 {
		t.Fatalf("expected 3 bars merged, got %d", res.Merged)
	}
}

func TestProcessNewsPipeline(t *testing.T) {
	dir := t.TempDir()
	raw := store.NewArticleStore(filepath.Join(dir, "raw.csv"))
	clean := store.NewArticleStore(filepath.Join(dir, "clean.csv"))

	if _, err := raw.Merge([]models.Article{
		{Title: "Apple shares rallied strongly after excellent quarterly earnings beat expectations.", PublishedAt: day(2), Ticker: "AAPL"},
		{Title: "Акции компании резко выросли после публикации квартального отчета о прибыли", PublishedAt: day(2), Ticker: "AAPL"},
	}); err != nil {
		t.Fatalf("seed raw: %v", err)
	}

	translator := translate.NewTranslator([]translate.Provider{echoProvider{}}, nil, translate.Options{TargetLang: "en"}, logger.Nop())
	uc := NewProcessNewsUseCase(raw, clean, translator, sentiment.NewScorer(),
		textproc.FilterConfig{Blacklist: []string{"ru"}, Junk: textproc.JunkConfig{KeepCJK: true}},
		nil, logger.Nop())

	res, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.DroppedLanguage != 1 {
		t.Fatalf("expected 1 language drop, got %d", res.DroppedLanguage)
	}

	out, err := clean.Load()
	if err != nil {
		t.Fatalf("load clean: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 clean article, got %d", len(out))
	}
	a := out[0]
	if a.TranslationStatus != models.TranslationSkipped {
		t.Fatalf("english text must skip translation, got %q", a.TranslationStatus)
	}
	if a.Sentiment <= 0 {
		t.Fatalf("expected positive sentiment, got %v", a.Sentiment)
	}
}

func TestCombineBuildsFeatureTable(t *testing.T) {
	dir := t.TempDir()
	clean := store.NewArticleStore(filepath.Join(dir, "clean.csv"))
	prices := store.NewPriceStore(filepath.Join(dir, "bars.csv"))
	featPath := filepath.Join(dir, "combined.csv")

	if _, err := prices.Merge(mkBars("AAPL", 5, 100)); err != nil {
		t.Fatalf("seed prices: %v", err)
	}
	if _, err := clean.Merge([]models.Article{
		{Title: "good day", PublishedAt: day(2).Add(10 * time.Hour), Ticker: "AAPL", Sentiment: 0.6},
		{Title: "market wide", PublishedAt: day(2).Add(11 * time.Hour), Ticker: "GENERAL", Sentiment: -0.3},
	}); err != nil {
		t.Fatalf("seed clean: %v", err)
	}

	uc := NewCombineUseCase(clean, prices, store.NewFeatureStore(featPath),
		nil, "GENERAL", nil, logger.Nop())
	res, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.FeatureRows != 5 {
		t.Fatalf("feature rows must match price rows, got %d", res.FeatureRows)
	}

	rows, err := store.NewFeatureStore(featPath).Load()
	if err != nil {
		t.Fatalf("load features: %v", err)
	}
	var newsDay models.FeatureRow
	for _, r := range rows {
		if r.Date.Equal(day(2)) {
			newsDay = r
		}
	}
	if newsDay.Sentiment != 0.6 || newsDay.NewsCount != 1 {
		t.Fatalf("sentiment join wrong: %+v", newsDay)
	}
	if newsDay.GeneralSentiment != -0.3 {
		t.Fatalf("general sentiment join wrong: %v", newsDay.GeneralSentiment)
	}
	last := rows[len(rows)-1]
	if last.HasTarget {
		t.Fatalf("final row must have no target")
	}
}

func TestScaleSplitsChronologicallyAndFitsOnTrainOnly(t *testing.T) {
	dir := t.TempDir()
	featPath := filepath.Join(dir, "combined.csv")
	trainPath := filepath.Join(dir, "train.csv")
	testPath := filepath.Join(dir, "test.csv")
	scalerPath := filepath.Join(dir, "scaler.json")

	rows := make([]models.FeatureRow, 10)
	for i := range rows {
		rows[i] = models.FeatureRow{
			Ticker: "AAPL",
			Date:   day(1).AddDate(0, 0, i),
			Close:  100 + float64(i),
			RSI:    50,
			// train closes 100..107 vs test 108..109 expose any test leak
			NextClose: 100 + float64(i) + 1,
			HasTarget: true,
		}
	}
	if err := store.NewFeatureStore(featPath).Save(rows); err != nil {
		t.Fatalf("seed features: %v", err)
	}

	uc := NewScaleUseCase(
		store.NewFeatureStore(featPath),
		store.NewFeatureStore(trainPath),
		store.NewFeatureStore(testPath),
		scalerPath, []string{"close", "rsi"}, 0.8,
		nil, logger.Nop())

	res, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.TrainRows != 8 || res.TestRows != 2 {
		t.Fatalf("expected 8/2 split, got %d/%d", res.TrainRows, res.TestRows)
	}
	if !res.TrainEnd.Before(res.TestStart) {
		t.Fatalf("train must precede test: %v vs %v", res.TrainEnd, res.TestStart)
	}

	st, err := scaler.Load(scalerPath)
	if err != nil {
		t.Fatalf("load scaler: %v", err)
	}
	// Mean of the train closes only (100..107), not of all ten rows.
	if got := st.Mean["close"]; math.Abs(got-103.5) > 1e-9 {
		t.Fatalf("scaler fitted beyond the train slice: mean %v", got)
	}

	test, err := store.NewFeatureStore(testPath).Load()
	if err != nil {
		t.Fatalf("load test set: %v", err)
	}
	want := (108 - 103.5) / st.Scale["close"]
	if math.Abs(test[0].Close-want) > 1e-9 {
		t.Fatalf("test set not scaled with train statistics: got %v want %v", test[0].Close, want)
	}
}

func TestScaleDropsRowsWithUndefinedFeatures(t *testing.T) {
	dir := t.TempDir()
	rows := []models.FeatureRow{
		{Ticker: "AAPL", Date: day(1), Close: 100, RSI: math.NaN(), NextClose: 101, HasTarget: true},
		{Ticker: "AAPL", Date: day(2), Close: 101, RSI: 55, NextClose: 102, HasTarget: true},
		{Ticker: "AAPL", Date: day(3), Close: 102, RSI: 60, NextClose: 103, HasTarget: true},
		{Ticker: "AAPL", Date: day(4), Close: 103, RSI: 60, NextClose: math.NaN(), HasTarget: false},
	}
	featPath := filepath.Join(dir, "combined.csv")
	if err := store.NewFeatureStore(featPath).Save(rows); err != nil {
		t.Fatalf("seed: %v", err)
	}

	uc := NewScaleUseCase(
		store.NewFeatureStore(featPath),
		store.NewFeatureStore(filepath.Join(dir, "train.csv")),
		store.NewFeatureStore(filepath.Join(dir, "test.csv")),
		filepath.Join(dir, "scaler.json"),
		[]string{"close", "rsi"}, 0.5,
		nil, logger.Nop())

	res, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Warm-up row and targetless row are both excluded.
	if res.UsableRows != 2 {
		t.Fatalf("expected 2 usable rows, got %d", res.UsableRows)
	}
}
