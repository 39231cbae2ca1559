// Package indicators derives per-ticker technical features from daily
// price bars. Every rolling statistic is causal: a value at row i depends
// only on rows 0..i, and warm-up rows are NaN until the window fills.
package indicators

import (
	"math"
	"sort"

	"NewsPulse/internal/domain/models"
)

// Window sizes for the derived series.
const (
	maShortWindow    = 25
	maLongWindow     = 50
	maTrendWindow    = 200
	bollingerWindow  = 20
	bollingerWidth   = 2.0
	rsiWindow        = 14
	volatilityWindow = 10
	emaFastSpan      = 12
	emaSlowSpan      = 26
	emaSignalSpan    = 9
)

// Enrich computes the full indicator set for each ticker independently and
// returns one feature row per input bar, ordered by ticker then date.
func Enrich(bars []models.PriceBar) []models.FeatureRow {
	byTicker := make(map[string][]models.PriceBar)
	var tickers []string
	for _, b := range bars {
		if _, seen := byTicker[b.Ticker]; !seen {
			tickers = append(tickers, b.Ticker)
		}
		byTicker[b.Ticker] = append(byTicker[b.Ticker], b)
	}
	sort.Strings(tickers)

	var rows []models.FeatureRow
	for _, ticker := range tickers {
		series := byTicker[ticker]
		sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
		rows = append(rows, enrichTicker(series)...)
	}
	return rows
}

func enrichTicker(bars []models.PriceBar) []models.FeatureRow {
	n := len(bars)
	closes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
	}

	ma25 := sma(closes, maShortWindow)
	ma50 := sma(closes, maLongWindow)
	ma200 := sma(closes, maTrendWindow)
	ema12 := ema(closes, emaFastSpan)
	ema26 := ema(closes, emaSlowSpan)

	macd := make([]float64, n)
	for i := range macd {
		macd[i] = ema12[i] - ema26[i]
	}
	signal := ema(macd, emaSignalSpan)

	bbMid := sma(closes, bollingerWindow)
	bbStd := rollingStd(closes, bollingerWindow)
	vol := rollingStd(closes, volatilityWindow)
	rsi := relativeStrength(closes, rsiWindow)

	rows := make([]models.FeatureRow, n)
	cum := 1.0
	obv := 0.0
	for i, b := range bars {
		row := models.FeatureRow{
			Ticker: b.Ticker,
			Date:   b.Date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,

			MA25:       ma25[i],
			MA50:       ma50[i],
			MA200:      ma200[i],
			EMA12:      ema12[i],
			EMA26:      ema26[i],
			MACD:       macd[i],
			MACDSignal: signal[i],
			Volatility: vol[i],
			BBMiddle:   bbMid[i],
			RSI:        rsi[i],

			DailyRet: math.NaN(),
			CumRet:   math.NaN(),
			Lag1:     math.NaN(),
			Lag2:     math.NaN(),
		}
		if math.IsNaN(bbMid[i]) || math.IsNaN(bbStd[i]) {
			row.BBUpper = math.NaN()
			row.BBLower = math.NaN()
		} else {
			row.BBUpper = bbMid[i] + bollingerWidth*bbStd[i]
			row.BBLower = bbMid[i] - bollingerWidth*bbStd[i]
		}

		if i > 0 {
			prev := bars[i-1].Close
			if prev != 0 {
				ret := b.Close/prev - 1
				row.DailyRet = ret
				cum *= 1 + ret
				row.CumRet = cum - 1
			}
			switch {
			case b.Close > prev:
				obv += b.Volume
			case b.Close < prev:
				obv -= b.Volume
			}
			row.Lag1 = bars[i-1].Close
		}
		if i > 1 {
			row.Lag2 = bars[i-2].Close
		}
		row.OBV = obv

		rows[i] = row
	}
	return rows
}

// sma is the simple moving average over window, NaN until the window fills.
func sma(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	if window <= 0 || len(xs) < window {
		return out
	}
	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// rollingStd is the rolling sample standard deviation, NaN until the
// window fills.
func rollingStd(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	if window <= 1 || len(xs) < window {
		return out
	}
	for i := window - 1; i < len(xs); i++ {
		mean := 0.0
		for j := i - window + 1; j <= i; j++ {
			mean += xs[j]
		}
		mean /= float64(window)
		acc := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := xs[j] - mean
			acc += d * d
		}
		out[i] = math.Sqrt(acc / float64(window-1))
	}
	return out
}

// ema is the span-parameterised exponential moving average, seeded at the
// first value and defined from row 0.
func ema(xs []float64, span int) []float64 {
	out := nanSlice(len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	prev := xs[0]
	out[0] = prev
	for i := 1; i < len(xs); i++ {
		prev = alpha*xs[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// relativeStrength is RSI over rolling mean gains and losses. A window
// with zero average loss saturates at 100.
func relativeStrength(closes []float64, window int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if n <= window {
		return out
	}
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}
	for i := window; i < n; i++ {
		var gainSum, lossSum float64
		for j := i - window + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(window)
		avgLoss := lossSum / float64(window)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
