package store

import (
	"fmt"
	"sort"

	"NewsPulse/internal/domain/models"
	"NewsPulse/pkg/util"
)

var priceHeader = []string{
	"date", "open", "high", "low", "close", "volume",
	"ticker", "fetch_date", "start_date", "end_date",
}

// PriceStore persists daily bars at one CSV path, at most one bar per
// (ticker, date).
type PriceStore struct {
	path string
}

func NewPriceStore(path string) *PriceStore {
	return &PriceStore{path: path}
}

func (s *PriceStore) Path() string { return s.path }

// Load reads all persisted bars. An absent file yields an empty set.
func (s *PriceStore) Load() ([]models.PriceBar, error) {
	rows, err := readRows(s.path, len(priceHeader))
	if err != nil {
		return nil, err
	}
	out := make([]models.PriceBar, 0, len(rows))
	for _, r := range rows {
		out = append(out, decodeBar(r))
	}
	return out, nil
}

// Merge appends newRecords onto the persisted set, drops duplicates by
// (ticker, date) keeping the last occurrence, sorts by ticker then date, and
// rewrites the file atomically.
func (s *PriceStore) Merge(newRecords []models.PriceBar) ([]models.PriceBar, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}

	all := append(existing, newRecords...)
	merged := dedupeBars(all)

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Ticker != merged[j].Ticker {
			return merged[i].Ticker < merged[j].Ticker
		}
		return merged[i].Date.Before(merged[j].Date)
	})

	rows := make([][]string, 0, len(merged))
	for i := range merged {
		rows = append(rows, encodeBar(&merged[i]))
	}
	if err := writeAtomic(s.path, priceHeader, rows); err != nil {
		return nil, err
	}
	return merged, nil
}

func barKey(b *models.PriceBar) string {
	return fmt.Sprintf("%s|%s", b.Ticker, util.FormatDay(b.Date))
}

func dedupeBars(all []models.PriceBar) []models.PriceBar {
	idx := make(map[string]int, len(all))
	out := make([]models.PriceBar, 0, len(all))
	for _, b := range all {
		k := barKey(&b)
		if i, seen := idx[k]; seen {
			out[i] = b
			continue
		}
		idx[k] = len(out)
		out = append(out, b)
	}
	return out
}

func encodeBar(b *models.PriceBar) []string {
	return []string{
		fmtDay(b.Date),
		fmtFloat(b.Open),
		fmtFloat(b.High),
		fmtFloat(b.Low),
		fmtFloat(b.Close),
		fmtFloat(b.Volume),
		b.Ticker,
		fmtDay(b.FetchDate),
		fmtDay(b.StartDate),
		fmtDay(b.EndDate),
	}
}

func decodeBar(r []string) models.PriceBar {
	return models.PriceBar{
		Date:      parseDay(r[0]),
		Open:      parseFloat(r[1]),
		High:      parseFloat(r[2]),
		Low:       parseFloat(r[3]),
		Close:     parseFloat(r[4]),
		Volume:    parseFloat(r[5]),
		Ticker:    r[6],
		FetchDate: parseDay(r[7]),
		StartDate: parseDay(r[8]),
		EndDate:   parseDay(r[9]),
	}
}
