package repository

import (
	"bytes"
	"context"
	"testing"
	"time"

	"FinSignal/internal/domain/models"
	applogger "FinSignal/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Prices(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	require.NoError(t, m.StorePrices(ctx, []models.PricePoint{
		{Symbol: "AAPL", Timestamp: base.Add(-48 * time.Hour), Close: 1},
		{Symbol: "AAPL", Timestamp: base, Close: 2},
		{Symbol: "TSLA", Timestamp: base, Close: 3},
	}))

	got, err := m.GetPrices(ctx, []string{"AAPL"}, base.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Close)

	got, err = m.GetPrices(ctx, nil, base.Add(-72*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestMemoryStore_Articles(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }
	require.NoError(t, m.StoreArticles(ctx, []models.Article{{Title: "old"}}))
	now = now.Add(time.Hour)
	require.NoError(t, m.StoreArticles(ctx, []models.Article{{Title: "a"}, {Title: "b"}}))

	got, err := m.GetArticles(ctx, now.Add(-30*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title)

	got, err = m.GetArticles(ctx, time.Time{}, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemoryStore_KeepsLatestSummary(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	runAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.StoreSummary(ctx, runAt, []models.SummaryRow{{Symbol: "AAPL"}}))
	require.NoError(t, m.StoreSummary(ctx, runAt.Add(-time.Hour), []models.SummaryRow{{Symbol: "OLD"}}))
	assert.Equal(t, runAt, m.latest.runAt)
	assert.Equal(t, "AAPL", m.latest.rows[0].Symbol)

	require.NoError(t, m.StoreSummary(ctx, runAt.Add(time.Hour), []models.SummaryRow{{Symbol: "MSFT"}}))
	assert.Equal(t, "MSFT", m.latest.rows[0].Symbol)
}

func TestLogAlertPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogAlertPublisher(applogger.NewWithWriter(&buf, zerolog.InfoLevel))
	require.NoError(t, p.PublishAlerts(context.Background(), []models.AlertCandidate{
		{Symbol: "TSLA", Decision: models.DecisionSell, News: models.AlertNews{Score: 3.5}},
	}))
	assert.Contains(t, buf.String(), `"symbol":"TSLA"`)
	assert.Contains(t, buf.String(), `"decision":"SELL"`)
	assert.NoError(t, p.Close())
}
