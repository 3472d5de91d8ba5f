package usecase

import (
	"math"
	"testing"

	"FinSignal/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertsGate_Filter(t *testing.T) {
	tests := []struct {
		name     string
		policy   AlertPolicy
		decision models.Decision
		score    float64
		withNews bool
		want     bool
	}{
		{"sell at threshold", DefaultAlertPolicy(), models.DecisionSell, 3.0, true, true},
		{"strong sell above", DefaultAlertPolicy(), models.DecisionStrongSell, 5.1, true, true},
		{"just below threshold", DefaultAlertPolicy(), models.DecisionSell, 2.999, true, false},
		{"buy not allowed", DefaultAlertPolicy(), models.DecisionBuy, 9, true, false},
		{"hold not allowed", DefaultAlertPolicy(), models.DecisionHold, 9, true, false},
		{"no news", DefaultAlertPolicy(), models.DecisionSell, 0, false, false},
		{"sell only policy excludes sell+", AlertPolicy{MinNewsScore: 1, AllowedDecisions: []models.Decision{models.DecisionSell}}, models.DecisionStrongSell, 4, true, false},
		{"zero threshold", AlertPolicy{MinNewsScore: 0, AllowedDecisions: []models.Decision{models.DecisionBuy}}, models.DecisionBuy, 0.1, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, err := NewAlertsGate(tt.policy)
			require.NoError(t, err)

			sigs := []models.Signal{{Symbol: "TSLA", Decision: tt.decision, Close: 10, Rationale: "r"}}
			var news []models.RankedArticle
			if tt.withNews {
				news = append(news, ranked("TSLA", "headline", tt.score))
			}
			got := gate.Filter(sigs, news)
			if !tt.want {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.decision, got[0].Decision)
			assert.Equal(t, tt.score, got[0].News.Score)
			assert.Equal(t, "headline", got[0].News.Title)
		})
	}
}

func TestAlertsGate_UsesTopArticle(t *testing.T) {
	gate, err := NewAlertsGate(DefaultAlertPolicy())
	require.NoError(t, err)
	got := gate.Filter(
		[]models.Signal{{Symbol: "TSLA", Decision: models.DecisionSell}},
		[]models.RankedArticle{ranked("TSLA", "weak", 1), ranked("TSLA", "strong", 3.2)},
	)
	require.Len(t, got, 1)
	assert.Equal(t, "strong", got[0].News.Title)
}

func TestAlertsGate_PreservesSignalOrder(t *testing.T) {
	gate, err := NewAlertsGate(DefaultAlertPolicy())
	require.NoError(t, err)
	sigs := []models.Signal{
		{Symbol: "TSLA", Decision: models.DecisionSell},
		{Symbol: "AAPL", Decision: models.DecisionStrongSell},
	}
	got := gate.Filter(sigs, []models.RankedArticle{ranked("AAPL", "a", 4), ranked("TSLA", "t", 3)})
	require.Len(t, got, 2)
	assert.Equal(t, "TSLA", got[0].Symbol)
	assert.Equal(t, "AAPL", got[1].Symbol)
}

func TestAlertPolicy_Validate(t *testing.T) {
	bad := []AlertPolicy{
		{MinNewsScore: -1, AllowedDecisions: []models.Decision{models.DecisionSell}},
		{MinNewsScore: math.NaN(), AllowedDecisions: []models.Decision{models.DecisionSell}},
		{MinNewsScore: 3},
		{MinNewsScore: 3, AllowedDecisions: []models.Decision{"SHORT"}},
	}
	for _, p := range bad {
		_, err := NewAlertsGate(p)
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	}
	assert.NoError(t, DefaultAlertPolicy().Validate())
}
