package repository

import (
	"context"
	"fmt"

	"NewsPulse/internal/domain/models"
	pkgkafka "NewsPulse/pkg/kafka"
	"NewsPulse/pkg/logger"
)

// KafkaSink publishes feature rows as JSON messages keyed by
// "ticker|date", so downstream consumers get per-key compaction and
// ordering for free.
type KafkaSink struct {
	producer *pkgkafka.Producer
	topic    string
	log      *logger.Logger
}

func NewKafkaSink(producer *pkgkafka.Producer, topic string, log *logger.Logger) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic, log: log}
}

func (s *KafkaSink) Store(ctx context.Context, rows []models.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(rows))
	for _, r := range rows {
		key := fmt.Sprintf("%s|%s", r.Ticker, r.Date.Format("2006-01-02"))
		msgs = append(msgs, pkgkafka.Message{Key: []byte(key), Value: r})
	}
	if err := s.producer.PublishBatch(ctx, s.topic, msgs); err != nil {
		return fmt.Errorf("publish feature rows: %w", err)
	}
	s.log.Info("feature rows published",
		logger.String("topic", s.topic),
		logger.Int("rows", len(rows)))
	return nil
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
