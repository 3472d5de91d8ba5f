package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	applogger "FinSignal/pkg/logger"
)

// Universe bounds what a store-backed run loads.
type Universe struct {
	Symbols      []string
	LookbackDays int
	NewsHours    int
	NewsLimit    int
}

func DefaultUniverse() Universe {
	return Universe{LookbackDays: 120, NewsHours: 72, NewsLimit: 500}
}

// Query narrows a single evaluation; zero fields fall back to the universe.
type Query struct {
	Symbols      []string
	LookbackDays int
	NewsHours    int
}

// IntelligenceService loads inputs from the stores, runs the pipeline and
// hands the outputs to the summary store and alert publisher.
type IntelligenceService struct {
	prices    domrepo.PriceStore
	news      domrepo.NewsStore
	summaries domrepo.SummaryStore
	alerts    domrepo.AlertPublisher
	pipeline  *Pipeline
	universe  Universe
	metrics   domrepo.Metrics
	log       *applogger.Logger
	now       func() time.Time
}

func NewIntelligenceService(
	prices domrepo.PriceStore,
	news domrepo.NewsStore,
	summaries domrepo.SummaryStore,
	alerts domrepo.AlertPublisher,
	pipeline *Pipeline,
	universe Universe,
	metrics domrepo.Metrics,
	log *applogger.Logger,
) *IntelligenceService {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &IntelligenceService{
		prices:    prices,
		news:      news,
		summaries: summaries,
		alerts:    alerts,
		pipeline:  pipeline,
		universe:  universe,
		metrics:   metrics,
		log:       log.With(applogger.String("component", "intelligence")),
		now:       time.Now,
	}
}

// RunInline runs the pipeline over caller-supplied records with no I/O.
func (s *IntelligenceService) RunInline(ctx context.Context, prices []models.PricePoint, articles []models.Article) (*models.PipelineResult, error) {
	return s.pipeline.Run(ctx, prices, articles)
}

// Evaluate loads inputs for q and runs the pipeline without side effects.
func (s *IntelligenceService) Evaluate(ctx context.Context, q Query) (*models.PipelineResult, error) {
	q = s.resolve(q)
	now := s.now().UTC()

	prices, err := s.prices.GetPrices(ctx, q.Symbols, now.AddDate(0, 0, -q.LookbackDays))
	if err != nil {
		s.metrics.RecordError("load_prices")
		return nil, fmt.Errorf("load prices: %w", err)
	}
	articles, err := s.news.GetArticles(ctx, now.Add(-time.Duration(q.NewsHours)*time.Hour), s.universe.NewsLimit)
	if err != nil {
		s.metrics.RecordError("load_news")
		return nil, fmt.Errorf("load news: %w", err)
	}
	s.log.Debug("inputs loaded",
		applogger.Int("prices", len(prices)),
		applogger.Int("articles", len(articles)),
	)
	return s.pipeline.Run(ctx, prices, articles)
}

// RunOnce evaluates the configured universe, persists the summary and
// publishes alerts. Delivery errors are joined so both sinks are attempted.
func (s *IntelligenceService) RunOnce(ctx context.Context) (*models.PipelineResult, error) {
	res, err := s.Evaluate(ctx, Query{})
	if err != nil {
		return nil, err
	}

	var errs []error
	if s.summaries != nil {
		if err := s.summaries.StoreSummary(ctx, res.RunAt, res.Summary); err != nil {
			s.metrics.RecordError("store_summary")
			errs = append(errs, fmt.Errorf("store summary: %w", err))
		}
	}
	if s.alerts != nil && len(res.Alerts) > 0 {
		if err := s.alerts.PublishAlerts(ctx, res.Alerts); err != nil {
			s.metrics.RecordError("publish_alerts")
			errs = append(errs, fmt.Errorf("publish alerts: %w", err))
		} else {
			s.log.Info("alerts published", applogger.Int("count", len(res.Alerts)))
		}
	}
	return res, errors.Join(errs...)
}

// Schedule calls RunOnce every interval until ctx is done.
func (s *IntelligenceService) Schedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("scheduled run failed", applogger.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (s *IntelligenceService) resolve(q Query) Query {
	if len(q.Symbols) == 0 {
		q.Symbols = s.universe.Symbols
	}
	if q.LookbackDays <= 0 {
		q.LookbackDays = s.universe.LookbackDays
	}
	if q.NewsHours <= 0 {
		q.NewsHours = s.universe.NewsHours
	}
	return q
}
