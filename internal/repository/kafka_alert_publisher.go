package repository

import (
	"context"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkgkafka "FinSignal/pkg/kafka"
)

// KafkaAlertPublisher writes alert candidates keyed by symbol.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.AlertPublisher = (*KafkaAlertPublisher)(nil)

func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) PublishAlerts(ctx context.Context, alerts []models.AlertCandidate) error {
	return p.producer.PublishBatch(ctx, p.topic, AlertMessages(alerts))
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// AlertMessages keys each alert by its symbol so a symbol's alerts stay ordered.
func AlertMessages(alerts []models.AlertCandidate) []pkgkafka.Message {
	msgs := make([]pkgkafka.Message, len(alerts))
	for i, a := range alerts {
		msgs[i] = pkgkafka.Message{Key: []byte(a.Symbol), Value: a}
	}
	return msgs
}
