package store

import (
	"NewsPulse/internal/domain/models"
)

var featureHeader = []string{
	"date", "ticker", "open", "high", "low", "close", "volume",
	"ma25", "ma50", "ma200", "ema12", "ema26", "macd", "macd_signal",
	"volatility", "bb_middle", "bb_upper", "bb_lower", "rsi",
	"daily_return", "cum_return", "obv", "lag1", "lag2",
	"sentiment", "news_count", "general_sentiment",
	"next_close", "target",
}

// FeatureStore persists the derived feature table. The table is recomputed
// from articles and bars each run, so writes replace rather than merge.
type FeatureStore struct {
	path string
}

func NewFeatureStore(path string) *FeatureStore {
	return &FeatureStore{path: path}
}

func (s *FeatureStore) Path() string { return s.path }

// Save overwrites the feature table atomically.
func (s *FeatureStore) Save(rows []models.FeatureRow) error {
	encoded := make([][]string, 0, len(rows))
	for i := range rows {
		encoded = append(encoded, encodeFeatureRow(&rows[i]))
	}
	return writeAtomic(s.path, featureHeader, encoded)
}

// Load reads the feature table. An absent file yields an empty set.
func (s *FeatureStore) Load() ([]models.FeatureRow, error) {
	rows, err := readRows(s.path, len(featureHeader))
	if err != nil {
		return nil, err
	}
	out := make([]models.FeatureRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, decodeFeatureRow(r))
	}
	return out, nil
}

func encodeFeatureRow(r *models.FeatureRow) []string {
	target := ""
	if r.HasTarget {
		target = fmtInt(r.Target)
	}
	return []string{
		fmtDay(r.Date),
		r.Ticker,
		fmtFloat(r.Open),
		fmtFloat(r.High),
		fmtFloat(r.Low),
		fmtFloat(r.Close),
		fmtFloat(r.Volume),
		fmtFloat(r.MA25),
		fmtFloat(r.MA50),
		fmtFloat(r.MA200),
		fmtFloat(r.EMA12),
		fmtFloat(r.EMA26),
		fmtFloat(r.MACD),
		fmtFloat(r.MACDSignal),
		fmtFloat(r.Volatility),
		fmtFloat(r.BBMiddle),
		fmtFloat(r.BBUpper),
		fmtFloat(r.BBLower),
		fmtFloat(r.RSI),
		fmtFloat(r.DailyRet),
		fmtFloat(r.CumRet),
		fmtFloat(r.OBV),
		fmtFloat(r.Lag1),
		fmtFloat(r.Lag2),
		fmtFloat(r.Sentiment),
		fmtFloat(r.NewsCount),
		fmtFloat(r.GeneralSentiment),
		fmtFloat(r.NextClose),
		target,
	}
}

func decodeFeatureRow(cells []string) models.FeatureRow {
	r := models.FeatureRow{
		Date:             parseDay(cells[0]),
		Ticker:           cells[1],
		Open:             parseFloat(cells[2]),
		High:             parseFloat(cells[3]),
		Low:              parseFloat(cells[4]),
		Close:            parseFloat(cells[5]),
		Volume:           parseFloat(cells[6]),
		MA25:             parseFloat(cells[7]),
		MA50:             parseFloat(cells[8]),
		MA200:            parseFloat(cells[9]),
		EMA12:            parseFloat(cells[10]),
		EMA26:            parseFloat(cells[11]),
		MACD:             parseFloat(cells[12]),
		MACDSignal:       parseFloat(cells[13]),
		Volatility:       parseFloat(cells[14]),
		BBMiddle:         parseFloat(cells[15]),
		BBUpper:          parseFloat(cells[16]),
		BBLower:          parseFloat(cells[17]),
		RSI:              parseFloat(cells[18]),
		DailyRet:         parseFloat(cells[19]),
		CumRet:           parseFloat(cells[20]),
		OBV:              parseFloat(cells[21]),
		Lag1:             parseFloat(cells[22]),
		Lag2:             parseFloat(cells[23]),
		Sentiment:        parseFloat(cells[24]),
		NewsCount:        parseFloat(cells[25]),
		GeneralSentiment: parseFloat(cells[26]),
		NextClose:        parseFloat(cells[27]),
	}
	if cells[28] != "" {
		r.Target = parseInt(cells[28])
		r.HasTarget = true
	}
	return r
}
