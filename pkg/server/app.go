// Package server owns the application lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"FinSignal/internal/domain/repository"
	icache "FinSignal/internal/service/cache"
	"FinSignal/internal/usecase"
	pkgch "FinSignal/pkg/clickhouse"
	"FinSignal/pkg/config"
	xhttp "FinSignal/pkg/http"
	pkgkafka "FinSignal/pkg/kafka"
	applogger "FinSignal/pkg/logger"
)

// App runs the HTTP API, the ingest consumer and the scheduled pipeline.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	svc         *usecase.IntelligenceService
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
	consumer    *pkgkafka.Consumer
	handlers    []pkgkafka.MessageHandler
	chClient    *pkgch.Client
	publisher   repository.AlertPublisher
	cache       icache.BytesCache
	collector   *applogger.LogCollector
}

// Option configures optional collaborators.
type Option func(*App)

func WithHTTPHandler(h xhttp.Handler) Option { return func(a *App) { a.httpHandler = h } }

// WithConsumer registers handlers on c; a nil consumer disables ingest.
func WithConsumer(c *pkgkafka.Consumer, handlers ...pkgkafka.MessageHandler) Option {
	return func(a *App) {
		a.consumer = c
		a.handlers = handlers
	}
}

func WithClickHouse(c *pkgch.Client) Option { return func(a *App) { a.chClient = c } }

func WithAlertPublisher(p repository.AlertPublisher) Option {
	return func(a *App) { a.publisher = p }
}

func WithCache(c icache.BytesCache) Option { return func(a *App) { a.cache = c } }

// WithLogCollector flushes c on shutdown, before the producer it publishes
// through is closed.
func WithLogCollector(c *applogger.LogCollector) Option { return func(a *App) { a.collector = c } }

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, log *applogger.Logger, svc *usecase.IntelligenceService, opts ...Option) *App {
	if log == nil {
		log = applogger.Nop()
	}
	a := &App{cfg: cfg, log: log, svc: svc}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Health checks ClickHouse and a pingable cache when present.
func (a *App) Health(ctx context.Context) error {
	if a.chClient != nil {
		if err := a.chClient.Health(ctx); err != nil {
			return fmt.Errorf("clickhouse: %w", err)
		}
	}
	if p, ok := a.cache.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	return nil
}

// Run starts every component and blocks until ctx is canceled or an
// interrupt arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.httpHandler, a.log,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithHealthCheck(a.Health),
	)

	if a.consumer != nil {
		topics := make([]string, 0, len(a.handlers))
		for _, h := range a.handlers {
			a.consumer.RegisterHandler(h)
			topics = append(topics, h.Topic())
		}
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		a.log.Info("ingest topics registered", applogger.Strings("topics", topics))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	if a.svc != nil && a.cfg.Universe.Interval > 0 {
		go a.svc.Schedule(ctx, a.cfg.Universe.Interval)
		a.log.Info("pipeline scheduled",
			applogger.Duration("interval", a.cfg.Universe.Interval),
			applogger.Strings("symbols", a.cfg.Universe.Symbols))
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.collector != nil {
		a.collector.Close()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("alert publisher close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if c, ok := a.cache.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
