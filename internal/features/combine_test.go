package features

import (
	"math"
	"testing"
	"time"

	"NewsPulse/internal/domain/models"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateMeanAndCount(t *testing.T) {
	articles := []models.Article{
		{Ticker: "AAPL", PublishedAt: day(2).Add(9 * time.Hour), Sentiment: 0.5},
		{Ticker: "AAPL", PublishedAt: day(2).Add(15 * time.Hour), Sentiment: -0.1},
		{Ticker: "AAPL", PublishedAt: day(3).Add(9 * time.Hour), Sentiment: 0.8},
		{Ticker: "MSFT", PublishedAt: day(2).Add(9 * time.Hour), Sentiment: 0.2},
	}
	daily := Aggregate(articles)
	if len(daily) != 3 {
		t.Fatalf("expected 3 (ticker, day) groups, got %d", len(daily))
	}
	first := daily[0]
	if first.Ticker != "AAPL" || !first.Date.Equal(day(2)) {
		t.Fatalf("unexpected first group: %+v", first)
	}
	if first.Count != 2 || math.Abs(first.Sentiment-0.2) > 1e-9 {
		t.Fatalf("expected mean 0.2 over 2 articles, got %v over %d", first.Sentiment, first.Count)
	}
}

func TestJoinPreservesRowCount(t *testing.T) {
	rows := []models.FeatureRow{
		{Ticker: "AAPL", Date: day(1), Close: 10},
		{Ticker: "AAPL", Date: day(2), Close: 11},
		{Ticker: "AAPL", Date: day(3), Close: 12},
	}
	daily := []models.DailySentiment{
		{Ticker: "AAPL", Date: day(2), Sentiment: 0.4, Count: 3},
		{Ticker: "GENERAL", Date: day(2), Sentiment: -0.2, Count: 5},
		{Ticker: "TSLA", Date: day(2), Sentiment: 0.9, Count: 1}, // no matching price row
	}
	joined := Join(rows, daily, "GENERAL")

	if len(joined) != len(rows) {
		t.Fatalf("left join must preserve row count: got %d", len(joined))
	}
	if joined[0].Sentiment != 0 || joined[0].NewsCount != 0 {
		t.Fatalf("news-free day must default to zero, got %+v", joined[0])
	}
	if joined[1].Sentiment != 0.4 || joined[1].NewsCount != 3 {
		t.Fatalf("matched day wrong: %+v", joined[1])
	}
	if joined[1].GeneralSentiment != -0.2 {
		t.Fatalf("general sentiment joins by day: %v", joined[1].GeneralSentiment)
	}
	if joined[2].GeneralSentiment != 0 {
		t.Fatalf("day without general news defaults to zero: %v", joined[2].GeneralSentiment)
	}
}

func TestBuildTargetsNextDayDirection(t *testing.T) {
	closes := []float64{10, 12, 11, 15, 15}
	rows := make([]models.FeatureRow, len(closes))
	for i, c := range closes {
		rows[i] = models.FeatureRow{Ticker: "AAPL", Date: day(i + 1), Close: c}
	}
	out := BuildTargets(rows)

	wantTargets := []int{1, 0, 1, 0}
	for i, w := range wantTargets {
		if !out[i].HasTarget {
			t.Fatalf("row %d must have a target", i)
		}
		if out[i].Target != w {
			t.Fatalf("row %d: expected target %d, got %d", i, w, out[i].Target)
		}
		if out[i].NextClose != closes[i+1] {
			t.Fatalf("row %d: expected next close %v, got %v", i, closes[i+1], out[i].NextClose)
		}
	}
	last := out[len(out)-1]
	if last.HasTarget || !math.IsNaN(last.NextClose) {
		t.Fatalf("final row has no tomorrow: %+v", last)
	}
}

func TestBuildTargetsNeverCrossesTickers(t *testing.T) {
	rows := []models.FeatureRow{
		{Ticker: "AAPL", Date: day(1), Close: 10},
		{Ticker: "AAPL", Date: day(2), Close: 11},
		{Ticker: "MSFT", Date: day(1), Close: 200},
	}
	out := BuildTargets(rows)
	if !out[0].HasTarget || out[0].NextClose != 11 {
		t.Fatalf("in-ticker target wrong: %+v", out[0])
	}
	if out[1].HasTarget {
		t.Fatalf("last AAPL row must not read MSFT's close")
	}
	if out[2].HasTarget {
		t.Fatalf("lone MSFT row must have no target")
	}
}
