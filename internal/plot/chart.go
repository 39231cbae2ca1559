// Package plot renders per-ticker PNG charts from the feature table.
package plot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"NewsPulse/internal/domain/models"
	"NewsPulse/pkg/logger"
)

// Exporter writes one chart per ticker into a directory.
type Exporter struct {
	dir string
	log *logger.Logger
}

func NewExporter(dir string, log *logger.Logger) *Exporter {
	return &Exporter{dir: dir, log: log}
}

// Render draws close price with the two moving averages on the primary
// axis and daily sentiment on the secondary axis, saved as
// <dir>/<ticker>.png. Rows must belong to a single ticker and be sorted
// oldest first.
func (e *Exporter) Render(ticker string, rows []models.FeatureRow) (string, error) {
	if len(rows) < 2 {
		return "", fmt.Errorf("need at least 2 rows to chart %s", ticker)
	}

	var (
		dates                    []float64
		closes, ma25, ma50, sent []float64
	)
	for _, r := range rows {
		dates = append(dates, chart.TimeToFloat64(r.Date))
		closes = append(closes, r.Close)
		ma25 = append(ma25, r.MA25)
		ma50 = append(ma50, r.MA50)
		sent = append(sent, r.Sentiment)
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("%s close, moving averages and news sentiment", ticker),
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Price",
		},
		YAxisSecondary: chart.YAxis{
			Name: "Sentiment",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Close",
				XValues: dates,
				YValues: closes,
			},
			chart.ContinuousSeries{
				Name:    "MA25",
				XValues: dates,
				YValues: stripNaN(ma25, closes),
				Style: chart.Style{
					StrokeColor:     chart.ColorBlue,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
			chart.ContinuousSeries{
				Name:    "MA50",
				XValues: dates,
				YValues: stripNaN(ma50, closes),
				Style: chart.Style{
					StrokeColor:     chart.ColorGreen,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
			chart.ContinuousSeries{
				Name:    "Sentiment",
				YAxis:   chart.YAxisSecondary,
				XValues: dates,
				YValues: sent,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
				},
			},
		},
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create charts dir: %w", err)
	}
	path := filepath.Join(e.dir, ticker+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("render chart for %s: %w", ticker, err)
	}
	e.log.Info("chart written",
		logger.String("ticker", ticker),
		logger.String("path", path))
	return path, nil
}

// stripNaN replaces warm-up NaN points with the close price, so the
// renderer draws a continuous line instead of failing on undefined input.
func stripNaN(xs, fallback []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) {
			out[i] = fallback[i]
			continue
		}
		out[i] = x
	}
	return out
}
