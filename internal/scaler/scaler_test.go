package scaler

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"NewsPulse/internal/domain/models"
)

func rowsWithCloses(closes ...float64) []models.FeatureRow {
	out := make([]models.FeatureRow, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = models.FeatureRow{Ticker: "AAPL", Date: start.AddDate(0, 0, i), Close: c, RSI: 50}
	}
	return out
}

func TestFitPopulationStatistics(t *testing.T) {
	st, err := Fit(rowsWithCloses(1, 2, 3, 4), []string{"close"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if got := st.Mean["close"]; got != 2.5 {
		t.Fatalf("expected mean 2.5, got %v", got)
	}
	want := math.Sqrt(1.25)
	if got := st.Scale["close"]; math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected scale %v, got %v", want, got)
	}
}

func TestFitZeroVarianceColumn(t *testing.T) {
	st, err := Fit(rowsWithCloses(5, 5, 5), []string{"rsi"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if st.Scale["rsi"] != 1 {
		t.Fatalf("zero-variance column must scale by 1, got %v", st.Scale["rsi"])
	}

	out, err := Apply(rowsWithCloses(5, 5), st)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	for _, row := range out {
		if math.IsInf(row.RSI, 0) || math.IsNaN(row.RSI) {
			t.Fatalf("transformed value must stay finite, got %v", row.RSI)
		}
	}
}

func TestApplyUsesFittedStateOnly(t *testing.T) {
	train := rowsWithCloses(1, 2, 3, 4)
	test := rowsWithCloses(100, 200)

	st, err := Fit(train, []string{"close"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	out, err := Apply(test, st)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Transformed with train statistics, not the test set's own.
	want := (100 - 2.5) / math.Sqrt(1.25)
	if math.Abs(out[0].Close-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, out[0].Close)
	}
	if test[0].Close != 100 {
		t.Fatalf("apply must not mutate input rows")
	}
}

func TestApplySkipsUndefinedCells(t *testing.T) {
	rows := rowsWithCloses(1, 2, 3)
	rows[0].Close = math.NaN()

	st, err := Fit(rows, []string{"close"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if st.Mean["close"] != 2.5 {
		t.Fatalf("undefined cells must not enter the mean, got %v", st.Mean["close"])
	}
	out, err := Apply(rows, st)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !math.IsNaN(out[0].Close) {
		t.Fatalf("undefined cell must stay undefined")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "price_scaler.json")
	st, err := Fit(rowsWithCloses(1, 2, 3), []string{"close", "rsi"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if err := Save(st, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Columns) != 2 || loaded.Columns[0] != "close" {
		t.Fatalf("column order lost: %v", loaded.Columns)
	}
	if loaded.Mean["close"] != st.Mean["close"] || loaded.Scale["rsi"] != st.Scale["rsi"] {
		t.Fatalf("statistics lost on round trip")
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("missing scaler state must be an error")
	}
}
