package repository

import (
	"context"

	"StockSentry/internal/domain/models"
	domrepo "StockSentry/internal/domain/repository"
	pkgkafka "StockSentry/pkg/kafka"
)

// KafkaEventSink publishes trigger events to a Kafka topic, keyed by symbol
// so downstream consumers see per-symbol ordering.
type KafkaEventSink struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.EventSink = (*KafkaEventSink)(nil)

// NewKafkaEventSink creates a Kafka-backed event sink.
func NewKafkaEventSink(producer *pkgkafka.Producer, topic string) *KafkaEventSink {
	return &KafkaEventSink{producer: producer, topic: topic}
}

func (p *KafkaEventSink) Publish(ctx context.Context, event *models.TriggerEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(event.Symbol), event)
}

func (p *KafkaEventSink) PublishBatch(ctx context.Context, events []*models.TriggerEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(events))
	for i, e := range events {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(e.Symbol),
			Value: e,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaEventSink) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
