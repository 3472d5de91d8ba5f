package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
)

// MemoryStore keeps prices, news and the latest summary in process. It
// backs local runs without ClickHouse.
type MemoryStore struct {
	mu     sync.RWMutex
	prices []models.PricePoint
	news   []storedArticle
	latest storedSummary
	now    func() time.Time
}

type storedArticle struct {
	article    models.Article
	ingestedAt time.Time
}

type storedSummary struct {
	runAt time.Time
	rows  []models.SummaryRow
}

var (
	_ domrepo.PriceStore   = (*MemoryStore)(nil)
	_ domrepo.NewsStore    = (*MemoryStore)(nil)
	_ domrepo.SummaryStore = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore { return &MemoryStore{now: time.Now} }

func (m *MemoryStore) GetPrices(_ context.Context, symbols []string, from time.Time) ([]models.PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.PricePoint, 0, len(m.prices))
	for _, p := range m.prices {
		if p.Timestamp.Before(from) {
			continue
		}
		if len(symbols) > 0 && !slices.Contains(symbols, p.Symbol) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *MemoryStore) StorePrices(_ context.Context, points []models.PricePoint) error {
	m.mu.Lock()
	m.prices = append(m.prices, points...)
	m.mu.Unlock()
	return nil
}

// GetArticles returns articles ingested since the given time, newest first.
func (m *MemoryStore) GetArticles(_ context.Context, since time.Time, limit int) ([]models.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Article
	for i := len(m.news) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m.news[i].ingestedAt.Before(since) {
			continue
		}
		out = append(out, m.news[i].article)
	}
	return out, nil
}

func (m *MemoryStore) StoreArticles(_ context.Context, articles []models.Article) error {
	now := m.now()
	m.mu.Lock()
	for _, a := range articles {
		m.news = append(m.news, storedArticle{article: a, ingestedAt: now})
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) StoreSummary(_ context.Context, runAt time.Time, rows []models.SummaryRow) error {
	m.mu.Lock()
	if !runAt.Before(m.latest.runAt) {
		m.latest = storedSummary{runAt: runAt, rows: slices.Clone(rows)}
	}
	m.mu.Unlock()
	return nil
}
