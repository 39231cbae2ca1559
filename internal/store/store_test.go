package store

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"NewsPulse/internal/domain/models"
)

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func article(title string, published time.Time, source string) models.Article {
	return models.Article{
		Title:       title,
		PublishedAt: published,
		SourceName:  source,
		Ticker:      "AAPL",
		Query:       "AAPL",
		Type:        "company",
	}
}

func TestArticleMergeAbsentFile(t *testing.T) {
	s := NewArticleStore(tempPath(t, "news.csv"))

	merged, err := s.Merge([]models.Article{
		article("a", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), "reuters"),
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 record, got %d", len(merged))
	}
}

func TestArticleMergeIdempotent(t *testing.T) {
	s := NewArticleStore(tempPath(t, "news.csv"))

	batch := []models.Article{
		article("a", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), "reuters"),
		article("b", time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), "ap"),
	}

	first, err := s.Merge(batch)
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	second, err := s.Merge(batch)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 records after both merges, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Title != second[i].Title || !first[i].PublishedAt.Equal(second[i].PublishedAt) {
			t.Fatalf("merge is not idempotent at row %d", i)
		}
	}
}

func TestArticleDedupKeepsLast(t *testing.T) {
	s := NewArticleStore(tempPath(t, "news.csv"))
	ts := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	if _, err := s.Merge([]models.Article{article("a", ts, "reuters")}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	merged, err := s.Merge([]models.Article{article("a", ts, "bloomberg")})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if len(merged) != 1 {
		t.Fatalf("expected 1 record, got %d", len(merged))
	}
	if merged[0].SourceName != "bloomberg" {
		t.Fatalf("expected last write to win, got source %q", merged[0].SourceName)
	}
}

func TestArticleMergeSortsByPublished(t *testing.T) {
	s := NewArticleStore(tempPath(t, "news.csv"))

	merged, err := s.Merge([]models.Article{
		article("late", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), "x"),
		article("early", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), "x"),
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged[0].Title != "early" || merged[1].Title != "late" {
		t.Fatalf("expected chronological order, got %q then %q", merged[0].Title, merged[1].Title)
	}
}

func TestPriceMergeOneBarPerKey(t *testing.T) {
	s := NewPriceStore(tempPath(t, "bars.csv"))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	if _, err := s.Merge([]models.PriceBar{{Ticker: "AAPL", Date: day, Close: 100}}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	merged, err := s.Merge([]models.PriceBar{{Ticker: "AAPL", Date: day, Close: 101}})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if len(merged) != 1 {
		t.Fatalf("expected one bar per (ticker, date), got %d", len(merged))
	}
	if merged[0].Close != 101 {
		t.Fatalf("expected re-fetch to overwrite, got close %v", merged[0].Close)
	}
}

func TestPriceLoadAbsentFile(t *testing.T) {
	s := NewPriceStore(filepath.Join(t.TempDir(), "missing", "bars.csv"))
	bars, err := s.Load()
	if err != nil {
		t.Fatalf("absent file must not be an error: %v", err)
	}
	if len(bars) != 0 {
		t.Fatalf("expected empty set, got %d", len(bars))
	}
}

func TestPriceMergeSortsByTickerThenDate(t *testing.T) {
	s := NewPriceStore(tempPath(t, "bars.csv"))
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }

	merged, err := s.Merge([]models.PriceBar{
		{Ticker: "MSFT", Date: d(2), Close: 1},
		{Ticker: "AAPL", Date: d(3), Close: 2},
		{Ticker: "AAPL", Date: d(1), Close: 3},
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	want := []struct {
		ticker string
		day    int
	}{{"AAPL", 1}, {"AAPL", 3}, {"MSFT", 2}}
	for i, w := range want {
		if merged[i].Ticker != w.ticker || merged[i].Date.Day() != w.day {
			t.Fatalf("row %d: got %s/%v", i, merged[i].Ticker, merged[i].Date)
		}
	}
}

func TestFeatureRoundTripPreservesUndefined(t *testing.T) {
	s := NewFeatureStore(tempPath(t, "combined.csv"))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	in := []models.FeatureRow{{
		Ticker:    "AAPL",
		Date:      day,
		Close:     100,
		MA25:      math.NaN(), // warm-up
		RSI:       55.5,
		NextClose: math.NaN(),
		HasTarget: false,
	}}
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if !math.IsNaN(out[0].MA25) {
		t.Fatalf("warm-up cell must stay undefined, got %v", out[0].MA25)
	}
	if out[0].HasTarget {
		t.Fatalf("final row must not gain a target on round trip")
	}
	if out[0].RSI != 55.5 {
		t.Fatalf("rsi mismatch: %v", out[0].RSI)
	}
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.csv")
	if err := writeAtomic(path, []string{"a"}, [][]string{{"1"}}); err != nil {
		t.Fatalf("writeAtomic: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "t.csv" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
