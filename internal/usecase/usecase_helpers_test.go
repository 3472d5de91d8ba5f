package usecase

import (
	"sync"
	"testing"
	"time"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/services/indicators"
	"FinSignal/internal/services/news"
	"FinSignal/internal/services/signals"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type recMetrics struct {
	mu      sync.Mutex
	stages  []string
	dropped map[string]int
	alerts  int
	errors  []string
}

func newRecMetrics() *recMetrics { return &recMetrics{dropped: map[string]int{}} }

func (m *recMetrics) RecordStage(stage string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages = append(m.stages, stage)
}

func (m *recMetrics) RecordDropped(kind string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped[kind] += n
}

func (m *recMetrics) RecordAlerts(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts += n
}

func (m *recMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind)
}

func testAliases(t *testing.T) *models.AliasTable {
	t.Helper()
	tbl, err := models.NewAliasTable([]models.AliasEntry{
		{Symbol: "AAPL", Aliases: []string{"Apple", "iPhone"}},
		{Symbol: "TSLA", Aliases: []string{"Tesla", "Elon Musk"}},
	})
	require.NoError(t, err)
	return tbl
}

// zigzag builds n closes alternating first/second steps from start.
func zigzag(symbol string, start, first, second float64, n int) []models.PricePoint {
	out := make([]models.PricePoint, n)
	c := start
	for i := 0; i < n; i++ {
		if i > 0 {
			if i%2 == 1 {
				c += first
			} else {
				c += second
			}
		}
		out[i] = models.PricePoint{Symbol: symbol, Timestamp: fixedNow.Add(time.Duration(i-n) * time.Hour), Close: c}
	}
	return out
}

// fixturePrices yields AAPL=BUY and TSLA=SELL, both with MACD confirmation.
func fixturePrices() []models.PricePoint {
	prices := zigzag("AAPL", 100, 3, -2, 40)
	prices = append(prices, zigzag("TSLA", 200, -3, 2, 40)...)
	return append(prices, models.PricePoint{Symbol: "", Close: 1})
}

func fixtureArticles() []models.Article {
	return []models.Article{
		{Title: "Apple unveils iPhone", Source: "Seeking Alpha", PublishedAt: "2024-04-30T12:00:00Z"},
		{Title: "Tesla recalls vehicles", Description: "Tesla shares slide", Source: "Reuters", PublishedAt: "2024-05-01T11:00:00Z"},
		{Source: "Reuters"},
	}
}

func newTestPipeline(t *testing.T, m *recMetrics) *Pipeline {
	t.Helper()
	gate, err := NewAlertsGate(DefaultAlertPolicy())
	require.NoError(t, err)
	return NewPipeline(
		indicators.NewEngine(indicators.DefaultConfig()),
		signals.NewGenerator(signals.DefaultThresholds()),
		news.NewLinker(testAliases(t)),
		news.NewRanker(news.DefaultTrustTable(), news.WithClock(clock)),
		gate,
		WithMetrics(m),
		WithRunClock(clock),
	)
}
