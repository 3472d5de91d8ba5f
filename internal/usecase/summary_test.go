package usecase

import (
	"testing"

	"FinSignal/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranked(sym string, title string, score float64) models.RankedArticle {
	a := models.RankedArticle{Score: score}
	a.Title = title
	a.Symbol = models.String(sym)
	return a
}

func TestTopNewsBySymbol(t *testing.T) {
	in := []models.RankedArticle{
		ranked("AAPL", "a1", 2.0),
		ranked("TSLA", "t1", 4.0),
		ranked("AAPL", "a2", 3.0),
		ranked("AAPL", "a3", 3.0),
		{Score: 9.0},
	}
	top := TopNewsBySymbol(in)
	require.Len(t, top, 2)
	assert.Equal(t, "a2", top["AAPL"].Title, "first-seen wins ties")
	assert.Equal(t, "t1", top["TSLA"].Title)
}

func TestTopNewsBySymbol_Empty(t *testing.T) {
	assert.Empty(t, TopNewsBySymbol(nil))
}

func TestBuildSummary(t *testing.T) {
	sigs := []models.Signal{
		{Symbol: "TSLA", Decision: models.DecisionSell, Close: 178, Rationale: "x"},
		{Symbol: "AAPL", Decision: models.DecisionBuy, Close: 122},
		{Symbol: "MSFT", Decision: models.DecisionHold, Close: 400},
	}
	rows := BuildSummary(sigs, []models.RankedArticle{ranked("AAPL", "a", 1.5), ranked("TSLA", "t", 2.5)})

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"TSLA", "AAPL", "MSFT"}, []string{rows[0].Symbol, rows[1].Symbol, rows[2].Symbol})
	require.NotNil(t, rows[0].NewsTop)
	assert.Equal(t, "t", rows[0].NewsTop.Title)
	assert.Equal(t, "x", rows[0].Rationale)
	assert.Equal(t, 1.5, rows[1].NewsTop.Score)
	assert.Nil(t, rows[2].NewsTop)
}

func TestBuildSummary_NoSignals(t *testing.T) {
	rows := BuildSummary(nil, []models.RankedArticle{ranked("AAPL", "a", 1)})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
