package usecase

import (
	"context"
	"fmt"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	domsvc "FinSignal/internal/domain/service"
	"FinSignal/internal/services/indicators"
	"FinSignal/internal/services/news"
	"FinSignal/internal/services/signals"
	applogger "FinSignal/pkg/logger"
)

// Stage names used for metrics and logs.
const (
	StageIndicators = "indicators"
	StageSignals    = "signals"
	StageLink       = "link"
	StageRank       = "rank"
	StageSummary    = "summary"
	StageAlerts     = "alerts"
)

var (
	_ domsvc.IndicatorEngine = (*indicators.Engine)(nil)
	_ domsvc.SignalGenerator = (*signals.Generator)(nil)
	_ domsvc.NewsLinker      = (*news.Linker)(nil)
	_ domsvc.NewsRanker      = (*news.Ranker)(nil)
	_ domsvc.AlertFilter     = (*AlertsGate)(nil)
)

// Pipeline runs the stages in order over in-memory records.
type Pipeline struct {
	engine    domsvc.IndicatorEngine
	generator domsvc.SignalGenerator
	linker    domsvc.NewsLinker
	ranker    domsvc.NewsRanker
	gate      domsvc.AlertFilter
	metrics   domrepo.Metrics
	log       *applogger.Logger
	now       func() time.Time
}

// PipelineOption configures Pipeline.
type PipelineOption func(*Pipeline)

func WithMetrics(m domrepo.Metrics) PipelineOption {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

func WithLogger(l *applogger.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithRunClock sets the clock stamped on results.
func WithRunClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPipeline(
	engine domsvc.IndicatorEngine,
	generator domsvc.SignalGenerator,
	linker domsvc.NewsLinker,
	ranker domsvc.NewsRanker,
	gate domsvc.AlertFilter,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		engine:    engine,
		generator: generator,
		linker:    linker,
		ranker:    ranker,
		gate:      gate,
		metrics:   domrepo.NopMetrics{},
		log:       applogger.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes all stages. ctx is checked between stages only; a stage
// that has started always finishes.
func (p *Pipeline) Run(ctx context.Context, prices []models.PricePoint, articles []models.Article) (*models.PipelineResult, error) {
	res := &models.PipelineResult{RunAt: p.now().UTC()}
	start := time.Now()

	if err := p.stage(ctx, StageIndicators, func() error {
		rows, dropped := p.engine.ComputeWithStats(prices)
		res.Indicators, res.Dropped.Prices = rows, dropped
		return nil
	}); err != nil {
		return nil, err
	}
	if err := p.stage(ctx, StageSignals, func() error {
		res.Signals = p.generator.GenerateAll(res.Indicators)
		return nil
	}); err != nil {
		return nil, err
	}

	var linked []models.LinkedArticle
	if err := p.stage(ctx, StageLink, func() error {
		var (
			dropped int
			err     error
		)
		linked, dropped, err = p.linker.LinkWithStats(articles)
		res.Dropped.Articles = dropped
		return err
	}); err != nil {
		return nil, err
	}
	if err := p.stage(ctx, StageRank, func() error {
		res.News = p.ranker.Rank(linked)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := p.stage(ctx, StageSummary, func() error {
		res.Summary = BuildSummary(res.Signals, res.News)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := p.stage(ctx, StageAlerts, func() error {
		res.Alerts = p.gate.Filter(res.Signals, res.News)
		return nil
	}); err != nil {
		return nil, err
	}

	p.metrics.RecordDropped("prices", res.Dropped.Prices)
	p.metrics.RecordDropped("articles", res.Dropped.Articles)
	p.metrics.RecordAlerts(len(res.Alerts))
	if res.Dropped.Prices > 0 || res.Dropped.Articles > 0 {
		p.log.Warn("malformed inputs dropped",
			applogger.Int("prices", res.Dropped.Prices),
			applogger.Int("articles", res.Dropped.Articles),
		)
	}
	p.log.Info("pipeline run complete",
		applogger.Int("symbols", len(res.Signals)),
		applogger.Int("articles", len(res.News)),
		applogger.Int("alerts", len(res.Alerts)),
		applogger.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		p.metrics.RecordError("canceled")
		return fmt.Errorf("pipeline canceled before %s: %w", name, err)
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	p.metrics.RecordStage(name, elapsed.Seconds())
	if err != nil {
		p.metrics.RecordError(name)
		return fmt.Errorf("%s stage: %w", name, err)
	}
	p.log.Debug("stage done", applogger.String("stage", name), applogger.Duration("elapsed", elapsed))
	return nil
}
