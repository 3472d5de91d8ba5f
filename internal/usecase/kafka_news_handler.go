package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkgkafka "FinSignal/pkg/kafka"
)

// KafkaNewsHandler consumes raw articles and writes them to the news store.
type KafkaNewsHandler struct {
	topic   string
	store   domrepo.NewsStore
	metrics domrepo.Metrics
}

var _ pkgkafka.MessageHandler = (*KafkaNewsHandler)(nil)

func NewKafkaNewsHandler(topic string, store domrepo.NewsStore, metrics domrepo.Metrics) *KafkaNewsHandler {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	return &KafkaNewsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaNewsHandler) Topic() string { return h.topic }

// Handle stores one article. Payloads that are not JSON or carry neither a
// title nor a description are counted and acknowledged.
func (h *KafkaNewsHandler) Handle(ctx context.Context, b []byte) error {
	var a models.Article
	if err := json.Unmarshal(b, &a); err != nil {
		h.metrics.RecordDropped("news_messages", 1)
		return nil
	}
	if strings.TrimSpace(a.Title) == "" && strings.TrimSpace(a.Description) == "" {
		h.metrics.RecordDropped("news_messages", 1)
		return nil
	}
	if a.SymbolHint != nil {
		a.SymbolHint = models.String(models.NormalizeSymbol(*a.SymbolHint))
	}
	if err := h.store.StoreArticles(ctx, []models.Article{a}); err != nil {
		h.metrics.RecordError("consumer_store_news")
		return err
	}
	return nil
}
