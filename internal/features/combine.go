// Package features joins daily sentiment onto enriched price rows and
// builds the prediction target without leaking future information.
package features

import (
	"math"
	"sort"
	"time"

	"NewsPulse/internal/domain/models"
	"NewsPulse/pkg/util"
)

// Aggregate reduces scored articles to one sentiment row per (ticker, day):
// the mean compound score and the article count. Articles without a
// publication timestamp are ignored.
func Aggregate(articles []models.Article) []models.DailySentiment {
	type acc struct {
		sum   float64
		count int
	}
	type key struct {
		ticker string
		day    time.Time
	}
	sums := make(map[key]*acc)
	for _, a := range articles {
		if a.PublishedAt.IsZero() {
			continue
		}
		k := key{ticker: a.Ticker, day: util.Day(a.PublishedAt)}
		entry := sums[k]
		if entry == nil {
			entry = &acc{}
			sums[k] = entry
		}
		entry.sum += a.Sentiment
		entry.count++
	}

	out := make([]models.DailySentiment, 0, len(sums))
	for k, entry := range sums {
		out = append(out, models.DailySentiment{
			Ticker:    k.ticker,
			Date:      k.day,
			Sentiment: entry.sum / float64(entry.count),
			Count:     entry.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Join attaches per-ticker and market-wide sentiment to enriched price
// rows. The join is a left join on (ticker, day): every price row survives
// exactly once, and days without news default to zero sentiment and zero
// count. Rows under generalTicker carry market-wide sentiment and are
// joined by day alone onto every ticker.
func Join(rows []models.FeatureRow, daily []models.DailySentiment, generalTicker string) []models.FeatureRow {
	type key struct {
		ticker string
		day    time.Time
	}
	byKey := make(map[key]models.DailySentiment, len(daily))
	general := make(map[time.Time]float64)
	for _, d := range daily {
		day := util.Day(d.Date)
		if d.Ticker == generalTicker {
			general[day] = d.Sentiment
			continue
		}
		byKey[key{ticker: d.Ticker, day: day}] = d
	}

	out := make([]models.FeatureRow, len(rows))
	for i, row := range rows {
		day := util.Day(row.Date)
		if d, ok := byKey[key{ticker: row.Ticker, day: day}]; ok {
			row.Sentiment = d.Sentiment
			row.NewsCount = float64(d.Count)
		} else {
			row.Sentiment = 0
			row.NewsCount = 0
		}
		row.GeneralSentiment = general[day] // zero when absent
		out[i] = row
	}
	return out
}

// BuildTargets fills NextClose and the binary up/down target for each row
// from the following row of the same ticker. The last row of every ticker
// has no tomorrow and is marked accordingly.
func BuildTargets(rows []models.FeatureRow) []models.FeatureRow {
	out := make([]models.FeatureRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		return out[i].Date.Before(out[j].Date)
	})

	for i := range out {
		next := i + 1
		if next < len(out) && out[next].Ticker == out[i].Ticker {
			out[i].NextClose = out[next].Close
			out[i].HasTarget = true
			if out[next].Close > out[i].Close {
				out[i].Target = 1
			} else {
				out[i].Target = 0
			}
		} else {
			out[i].NextClose = math.NaN()
			out[i].HasTarget = false
			out[i].Target = 0
		}
	}
	return out
}
