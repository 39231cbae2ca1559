package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"NewsPulse/internal/domain/models"
	pkgch "NewsPulse/pkg/clickhouse"
	"NewsPulse/pkg/logger"
)

const featureRowsDDL = `
CREATE TABLE IF NOT EXISTS feature_rows (
    date        Date,
    ticker      LowCardinality(String),
    open        Float64,
    high        Float64,
    low         Float64,
    close       Float64,
    volume      Float64,
    ma25        Nullable(Float64),
    ma50        Nullable(Float64),
    ma200       Nullable(Float64),
    macd        Nullable(Float64),
    macd_signal Nullable(Float64),
    bb_upper    Nullable(Float64),
    bb_lower    Nullable(Float64),
    rsi         Nullable(Float64),
    sentiment   Float64,
    news_count  Float64,
    general_sentiment Float64,
    next_close  Nullable(Float64),
    target      Nullable(Int8)
) ENGINE = ReplacingMergeTree()
ORDER BY (ticker, date)
`

// ClickHouseSink exports feature rows into a ReplacingMergeTree table, so
// re-running the combine stage upserts rather than duplicates.
type ClickHouseSink struct {
	db  *sql.DB
	log *logger.Logger
}

func NewClickHouseSink(ctx context.Context, ch *pkgch.Client, log *logger.Logger) (*ClickHouseSink, error) {
	if err := ch.InitSchema(ctx, []string{featureRowsDDL}); err != nil {
		return nil, fmt.Errorf("init feature schema: %w", err)
	}
	return &ClickHouseSink{db: ch.DB(), log: log}, nil
}

func (s *ClickHouseSink) Store(ctx context.Context, rows []models.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO feature_rows
        (date, ticker, open, high, low, close, volume,
         ma25, ma50, ma200, macd, macd_signal, bb_upper, bb_lower, rsi,
         sentiment, news_count, general_sentiment, next_close, target)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		var target interface{}
		if r.HasTarget {
			target = int8(r.Target)
		}
		_, err := stmt.ExecContext(ctx,
			r.Date, r.Ticker, r.Open, r.High, r.Low, r.Close, r.Volume,
			nullable(r.MA25), nullable(r.MA50), nullable(r.MA200),
			nullable(r.MACD), nullable(r.MACDSignal),
			nullable(r.BBUpper), nullable(r.BBLower), nullable(r.RSI),
			r.Sentiment, r.NewsCount, r.GeneralSentiment,
			nullable(r.NextClose), target,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert feature row %s/%s: %w", r.Ticker, r.Date.Format("2006-01-02"), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	s.log.Info("feature rows exported to clickhouse", logger.Int("rows", len(rows)))
	return nil
}

func (s *ClickHouseSink) Close() error {
	return nil // lifetime of the connection is owned by pkg/clickhouse
}

func nullable(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
