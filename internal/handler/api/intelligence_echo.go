package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	icache "FinSignal/internal/service/cache"
	"FinSignal/internal/service/metrics"
	"FinSignal/internal/service/ratelimit"
	"FinSignal/internal/usecase"
	xhttp "FinSignal/pkg/http"
	xlogger "FinSignal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Intelligence is the slice of the intelligence service the API needs.
type Intelligence interface {
	RunInline(ctx context.Context, prices []models.PricePoint, articles []models.Article) (*models.PipelineResult, error)
	Evaluate(ctx context.Context, q usecase.Query) (*models.PipelineResult, error)
}

// IntelligenceHandler serves pipeline runs, summaries and alerts.
type IntelligenceHandler struct {
	logger   *xlogger.Logger
	svc      Intelligence
	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter
}

// HandlerOption configures IntelligenceHandler.
type HandlerOption func(*IntelligenceHandler)

// WithCache enables response caching for the store-backed GET endpoints.
func WithCache(c icache.BytesCache, ttl time.Duration) HandlerOption {
	return func(h *IntelligenceHandler) {
		h.cache = c
		h.cacheTTL = ttl
	}
}

// WithRateLimit replaces the default per-client limiter.
func WithRateLimit(rl *ratelimit.Limiter) HandlerOption {
	return func(h *IntelligenceHandler) { h.rl = rl }
}

func NewIntelligenceHandler(logger *xlogger.Logger, svc Intelligence, opts ...HandlerOption) *IntelligenceHandler {
	metrics.Register()
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &IntelligenceHandler{logger: logger, svc: svc, rl: ratelimit.New(20, 5)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *IntelligenceHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.rateLimit)
	g.POST("/pipeline/run", h.Run)
	g.GET("/summary", h.Summary)
	g.GET("/alerts", h.Alerts)
}

func (h *IntelligenceHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.rl != nil && !h.rl.Allow(c.RealIP()) {
			return xhttp.ErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded"))
		}
		return next(c)
	}
}

// Run executes the pipeline over the posted records. Nothing is persisted.
func (h *IntelligenceHandler) Run(c echo.Context) error {
	defer observe("run", time.Now())
	req := &models.RunRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ValidationErrorResponse(c, verr)
	}
	prices, dropped := usecase.ParsePoints(req.Prices)
	res, err := h.svc.RunInline(c.Request().Context(), prices, req.Articles)
	if err != nil {
		return h.fail(c, "run", err)
	}
	res.Dropped.Prices += dropped
	return xhttp.SuccessResponse(c, res)
}

// Summary returns one row per symbol from the stored universe.
func (h *IntelligenceHandler) Summary(c echo.Context) error {
	defer observe("summary", time.Now())
	req := &models.SummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ValidationErrorResponse(c, verr)
	}
	q := usecase.Query{
		Symbols:      domrepo.NormalizeSymbols(req.Symbols),
		LookbackDays: req.LookbackDays,
		NewsHours:    req.NewsHours,
	}
	key := cacheKey("summary", q, 0)
	return h.cached(c, "summary", key, func(ctx context.Context) (any, error) {
		res, err := h.svc.Evaluate(ctx, q)
		if err != nil {
			return nil, err
		}
		return res.Summary, nil
	})
}

// Alerts returns alert candidates; min_score can only tighten the policy.
func (h *IntelligenceHandler) Alerts(c echo.Context) error {
	defer observe("alerts", time.Now())
	req := &models.AlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ValidationErrorResponse(c, verr)
	}
	q := usecase.Query{
		Symbols:      domrepo.NormalizeSymbols(req.Symbols),
		LookbackDays: req.LookbackDays,
		NewsHours:    req.NewsHours,
	}
	key := cacheKey("alerts", q, req.MinScore)
	return h.cached(c, "alerts", key, func(ctx context.Context) (any, error) {
		res, err := h.svc.Evaluate(ctx, q)
		if err != nil {
			return nil, err
		}
		out := make([]models.AlertCandidate, 0, len(res.Alerts))
		for _, a := range res.Alerts {
			if a.News.Score >= req.MinScore {
				out = append(out, a)
			}
		}
		return out, nil
	})
}

// cached serves key from the cache or computes, stores and serves it.
// Cache failures degrade to a direct computation.
func (h *IntelligenceHandler) cached(c echo.Context, endpoint, key string, compute func(ctx context.Context) (any, error)) error {
	ctx := c.Request().Context()
	if h.cache != nil {
		b, ok, err := h.cache.GetBytes(ctx, key)
		if err != nil {
			h.logger.Warn("cache get failed", xlogger.String("key", key), xlogger.Error(err))
		}
		if ok {
			metrics.CacheResults.WithLabelValues(endpoint, "hit").Inc()
			return xhttp.SuccessResponse(c, json.RawMessage(b))
		}
		metrics.CacheResults.WithLabelValues(endpoint, "miss").Inc()
	}

	data, err := compute(ctx)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	if h.cache != nil {
		if b, err := json.Marshal(data); err == nil {
			if err := h.cache.SetBytes(ctx, key, b, h.cacheTTL); err != nil {
				h.logger.Warn("cache set failed", xlogger.String("key", key), xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, data)
}

func (h *IntelligenceHandler) fail(c echo.Context, endpoint string, err error) error {
	metrics.APIErrors.WithLabelValues(endpoint).Inc()
	h.logger.Error("intelligence usecase error", xlogger.String("endpoint", endpoint), xlogger.Error(err))
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return xhttp.ErrorResponse(c, xhttp.ServiceUnavailableError("request canceled").WithError(err))
	case errors.Is(err, usecase.ErrInvalidPolicy):
		return xhttp.ErrorResponse(c, xhttp.InternalError("alert policy misconfigured").WithError(err))
	default:
		return xhttp.ErrorResponse(c, xhttp.ServiceUnavailableError("pipeline unavailable").WithError(err))
	}
}

func cacheKey(endpoint string, q usecase.Query, minScore float64) string {
	return fmt.Sprintf("%s:%s:%d:%d:%g", endpoint, strings.Join(q.Symbols, ","), q.LookbackDays, q.NewsHours, minScore)
}

func observe(endpoint string, start time.Time) {
	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
