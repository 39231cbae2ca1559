package models

import (
	"encoding/json"
	"math"
	"time"
)

// Article is one fetched news item. Natural key: (Title, PublishedAt).
// Created on fetch, enriched by the language/translation/sentiment stages,
// immutable once scored.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	PublishedAt time.Time `json:"published_at"`

	Query     string    `json:"query"`
	Type      string    `json:"type"` // "company" or "general"
	Ticker    string    `json:"ticker"`
	FetchDate time.Time `json:"fetch_date"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	DetectedLang      string            `json:"detected_lang,omitempty"`
	TranslatedText    string            `json:"translated_text,omitempty"`
	TranslationStatus TranslationStatus `json:"translation_status,omitempty"`
	Sentiment         float64           `json:"sentiment"`
}

// FullText joins the text fields used for detection, translation, and scoring.
func (a *Article) FullText() string {
	s := a.Title
	if a.Description != "" {
		s += " " + a.Description
	}
	if a.Content != "" {
		s += " " + a.Content
	}
	return s
}

// TranslationStatus records how the translated text was obtained, so callers
// can tell "translated" apart from "kept original because provider failed".
type TranslationStatus string

const (
	// TranslationSkipped: text already in the target language.
	TranslationSkipped TranslationStatus = "skipped"
	// TranslationOK: every chunk translated by a provider.
	TranslationOK TranslationStatus = "translated"
	// TranslationDegraded: one or more chunks fell back to original text.
	TranslationDegraded TranslationStatus = "degraded"
)

// PriceBar is one daily OHLCV bar. Natural key: (Ticker, Date).
// Re-fetches overwrite via last-write-wins merge; at most one bar per key.
type PriceBar struct {
	Ticker    string    `json:"ticker"`
	Date      time.Time `json:"date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	FetchDate time.Time `json:"fetch_date"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// DailySentiment is the per-(ticker, date) article aggregate. Derived fresh
// each run from the article set; never persisted on its own.
type DailySentiment struct {
	Ticker    string
	Date      time.Time
	Sentiment float64 // mean compound score
	Count     int
}

// FeatureRow is one (ticker, date) feature-table row. Existence is driven by
// PriceBar presence; indicator fields are NaN inside their warm-up windows.
type FeatureRow struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`

	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`

	MA25       float64 `json:"ma25"`
	MA50       float64 `json:"ma50"`
	MA200      float64 `json:"ma200"`
	EMA12      float64 `json:"ema12"`
	EMA26      float64 `json:"ema26"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	Volatility float64 `json:"volatility"`
	BBMiddle   float64 `json:"bb_middle"`
	BBUpper    float64 `json:"bb_upper"`
	BBLower    float64 `json:"bb_lower"`
	RSI        float64 `json:"rsi"`
	DailyRet   float64 `json:"daily_return"`
	CumRet     float64 `json:"cum_return"`
	OBV        float64 `json:"obv"`
	Lag1       float64 `json:"lag1"`
	Lag2       float64 `json:"lag2"`

	Sentiment        float64 `json:"sentiment"`
	NewsCount        float64 `json:"news_count"`
	GeneralSentiment float64 `json:"general_sentiment"`

	// NextClose is NaN and HasTarget false on the final row per ticker;
	// such rows are excluded from any supervised dataset.
	NextClose float64 `json:"next_close"`
	Target    int     `json:"target"`
	HasTarget bool    `json:"has_target"`
}

// MarshalJSON renders warm-up NaN cells as null so rows survive JSON
// encoding for sinks and API responses.
func (r FeatureRow) MarshalJSON() ([]byte, error) {
	num := func(v float64) interface{} {
		if math.IsNaN(v) {
			return nil
		}
		return v
	}
	doc := map[string]interface{}{
		"ticker": r.Ticker,
		"date":   r.Date.UTC().Format("2006-01-02"),

		"open":   num(r.Open),
		"high":   num(r.High),
		"low":    num(r.Low),
		"close":  num(r.Close),
		"volume": num(r.Volume),

		"ma25":         num(r.MA25),
		"ma50":         num(r.MA50),
		"ma200":        num(r.MA200),
		"ema12":        num(r.EMA12),
		"ema26":        num(r.EMA26),
		"macd":         num(r.MACD),
		"macd_signal":  num(r.MACDSignal),
		"volatility":   num(r.Volatility),
		"bb_middle":    num(r.BBMiddle),
		"bb_upper":     num(r.BBUpper),
		"bb_lower":     num(r.BBLower),
		"rsi":          num(r.RSI),
		"daily_return": num(r.DailyRet),
		"cum_return":   num(r.CumRet),
		"obv":          num(r.OBV),
		"lag1":         num(r.Lag1),
		"lag2":         num(r.Lag2),

		"sentiment":         num(r.Sentiment),
		"news_count":        num(r.NewsCount),
		"general_sentiment": num(r.GeneralSentiment),

		"next_close": num(r.NextClose),
		"has_target": r.HasTarget,
	}
	if r.HasTarget {
		doc["target"] = r.Target
	} else {
		doc["target"] = nil
	}
	return json.Marshal(doc)
}

// Feature returns the named feature column value, or NaN when unknown.
func (r *FeatureRow) Feature(col string) float64 {
	switch col {
	case "open":
		return r.Open
	case "high":
		return r.High
	case "low":
		return r.Low
	case "close":
		return r.Close
	case "volume":
		return r.Volume
	case "ma25":
		return r.MA25
	case "ma50":
		return r.MA50
	case "ma200":
		return r.MA200
	case "ema12":
		return r.EMA12
	case "ema26":
		return r.EMA26
	case "macd":
		return r.MACD
	case "macd_signal":
		return r.MACDSignal
	case "volatility":
		return r.Volatility
	case "bb_middle":
		return r.BBMiddle
	case "bb_upper":
		return r.BBUpper
	case "bb_lower":
		return r.BBLower
	case "rsi":
		return r.RSI
	case "daily_return":
		return r.DailyRet
	case "cum_return":
		return r.CumRet
	case "obv":
		return r.OBV
	case "lag1":
		return r.Lag1
	case "lag2":
		return r.Lag2
	case "sentiment":
		return r.Sentiment
	case "news_count":
		return r.NewsCount
	case "general_sentiment":
		return r.GeneralSentiment
	default:
		return math.NaN()
	}
}

// SetFeature writes the named feature column value.
func (r *FeatureRow) SetFeature(col string, v float64) {
	switch col {
	case "open":
		r.Open = v
	case "high":
		r.High = v
	case "low":
		r.Low = v
	case "close":
		r.Close = v
	case "volume":
		r.Volume = v
	case "ma25":
		r.MA25 = v
	case "ma50":
		r.MA50 = v
	case "ma200":
		r.MA200 = v
	case "ema12":
		r.EMA12 = v
	case "ema26":
		r.EMA26 = v
	case "macd":
		r.MACD = v
	case "macd_signal":
		r.MACDSignal = v
	case "volatility":
		r.Volatility = v
	case "bb_middle":
		r.BBMiddle = v
	case "bb_upper":
		r.BBUpper = v
	case "bb_lower":
		r.BBLower = v
	case "rsi":
		r.RSI = v
	case "daily_return":
		r.DailyRet = v
	case "cum_return":
		r.CumRet = v
	case "obv":
		r.OBV = v
	case "lag1":
		r.Lag1 = v
	case "lag2":
		r.Lag2 = v
	case "sentiment":
		r.Sentiment = v
	case "news_count":
		r.NewsCount = v
	case "general_sentiment":
		r.GeneralSentiment = v
	}
}
