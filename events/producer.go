// Package events publishes settlement outcomes to a Kafka topic for
// downstream consumers (analytics, reconciliation). The stream is optional:
// with no brokers configured the gateway runs with the no-op producer.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OutcomeEvent mirrors the webhook events on the internal stream.
type OutcomeEvent struct {
	Event      string    `json:"event"` // payment.success, payment.failed, refund.processed
	EntityID   string    `json:"entity_id"`
	MerchantID string    `json:"merchant_id"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	Timestamp  time.Time `json:"timestamp"`
}

type Producer interface {
	Publish(ctx context.Context, evt OutcomeEvent) error
	Close() error
}

type KafkaProducer struct {
	writer *kafka.Writer
	logger *zap.Logger
	topic  string
}

func NewKafkaProducer(brokers []string, topic string, logger *zap.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("Kafka outcome producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers),
	)
	return &KafkaProducer{writer: w, logger: logger, topic: topic}
}

func (p *KafkaProducer) Publish(ctx context.Context, evt OutcomeEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(evt.EntityID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("failed to publish outcome event",
			zap.String("event", evt.Event),
			zap.String("entity_id", evt.EntityID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NopProducer drops all events.
type NopProducer struct{}

func (NopProducer) Publish(context.Context, OutcomeEvent) error { return nil }
func (NopProducer) Close() error                                { return nil }
