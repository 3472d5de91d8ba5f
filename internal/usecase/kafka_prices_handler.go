package usecase

import (
	"context"
	"encoding/json"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkgkafka "FinSignal/pkg/kafka"
	"FinSignal/pkg/util"
)

// KafkaPricesHandler consumes price ticks and writes them to the price store.
type KafkaPricesHandler struct {
	topic   string
	store   domrepo.PriceStore
	metrics domrepo.Metrics
}

var _ pkgkafka.MessageHandler = (*KafkaPricesHandler)(nil)

func NewKafkaPricesHandler(topic string, store domrepo.PriceStore, metrics domrepo.Metrics) *KafkaPricesHandler {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	return &KafkaPricesHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaPricesHandler) Topic() string { return h.topic }

// Handle accepts {symbol, t, c}; t is unix s/ms or a timestamp string, c a
// number or numeric string. Malformed ticks are counted and acknowledged.
func (h *KafkaPricesHandler) Handle(ctx context.Context, b []byte) error {
	p, ok := DecodeTick(b)
	if !ok {
		h.metrics.RecordDropped("ticks", 1)
		return nil
	}
	start := time.Now()
	err := h.store.StorePrices(ctx, []models.PricePoint{p})
	h.metrics.RecordStage("ingest_store", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

// DecodeTick parses one tick payload.
func DecodeTick(b []byte) (models.PricePoint, bool) {
	var m struct {
		Symbol string `json:"symbol"`
		T      any    `json:"t"`
		C      any    `json:"c"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return models.PricePoint{}, false
	}
	return ParsePoint(m.Symbol, m.T, m.C)
}

// ParsePoint builds a price point from loosely typed fields. A blank symbol,
// a missing or non-numeric close, or an unreadable timestamp rejects the row.
func ParsePoint(symbol string, t, c any) (models.PricePoint, bool) {
	sym := models.NormalizeSymbol(symbol)
	if sym == "" {
		return models.PricePoint{}, false
	}
	closePrice, ok := util.ParseNumber(c)
	if !ok {
		return models.PricePoint{}, false
	}
	ts, ok := tickTime(t)
	if !ok {
		return models.PricePoint{}, false
	}
	return models.PricePoint{Symbol: sym, Timestamp: ts, Close: closePrice}, true
}

// ParsePoints converts posted rows, returning the usable points and how
// many rows were dropped.
func ParsePoints(raw []models.RawPricePoint) ([]models.PricePoint, int) {
	out := make([]models.PricePoint, 0, len(raw))
	for _, r := range raw {
		p, ok := ParsePoint(r.Symbol, r.Timestamp, r.Close)
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out, len(raw) - len(out)
}

func tickTime(v any) (time.Time, bool) {
	if s, ok := v.(string); ok {
		return util.ParseTime(s)
	}
	f, ok := util.ParseNumber(v)
	if !ok || f <= 0 {
		return time.Time{}, false
	}
	ts := int64(f)
	if ts > 1e11 { // ms
		return time.UnixMilli(ts).UTC(), true
	}
	return time.Unix(ts, 0).UTC(), true
}
