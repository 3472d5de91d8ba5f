package repository

import (
	"context"
	"time"

	"FinSignal/internal/domain/models"
)

// SummaryStore persists per-run summary rows.
type SummaryStore interface {
	StoreSummary(ctx context.Context, runAt time.Time, rows []models.SummaryRow) error
}

// AlertPublisher delivers alert candidates to downstream notifiers.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []models.AlertCandidate) error
	Close() error
}

// Metrics records pipeline observability data.
type Metrics interface {
	RecordStage(stage string, seconds float64)
	RecordDropped(kind string, n int)
	RecordAlerts(n int)
	RecordError(kind string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordStage(string, float64) {}
func (NopMetrics) RecordDropped(string, int)   {}
func (NopMetrics) RecordAlerts(int)            {}
func (NopMetrics) RecordError(string)          {}
