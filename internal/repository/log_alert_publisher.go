package repository

import (
	"context"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	applogger "FinSignal/pkg/logger"
)

// LogAlertPublisher writes alerts to the log when Kafka is disabled.
type LogAlertPublisher struct {
	l *applogger.Logger
}

var _ domrepo.AlertPublisher = (*LogAlertPublisher)(nil)

func NewLogAlertPublisher(l *applogger.Logger) *LogAlertPublisher {
	return &LogAlertPublisher{l: orNop(l)}
}

func (p *LogAlertPublisher) PublishAlerts(_ context.Context, alerts []models.AlertCandidate) error {
	for _, a := range alerts {
		p.l.Info("alert",
			applogger.String("symbol", a.Symbol),
			applogger.String("decision", string(a.Decision)),
			applogger.Float64("close", a.Close),
			applogger.Float64("news_score", a.News.Score),
			applogger.String("news_title", a.News.Title),
			applogger.String("rationale", a.Rationale),
		)
	}
	return nil
}

func (p *LogAlertPublisher) Close() error { return nil }
