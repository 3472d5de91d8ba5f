package usecase

import (
	"errors"
	"fmt"
	"math"

	"FinSignal/internal/domain/models"
)

var ErrInvalidPolicy = errors.New("invalid alert policy")

// AlertPolicy decides which signals are worth an alert.
type AlertPolicy struct {
	MinNewsScore     float64
	AllowedDecisions []models.Decision
}

func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{
		MinNewsScore:     3.0,
		AllowedDecisions: []models.Decision{models.DecisionSell, models.DecisionStrongSell},
	}
}

func (p AlertPolicy) Validate() error {
	if math.IsNaN(p.MinNewsScore) || math.IsInf(p.MinNewsScore, 0) || p.MinNewsScore < 0 {
		return fmt.Errorf("%w: min_news_score %v", ErrInvalidPolicy, p.MinNewsScore)
	}
	if len(p.AllowedDecisions) == 0 {
		return fmt.Errorf("%w: no allowed decisions", ErrInvalidPolicy)
	}
	for _, d := range p.AllowedDecisions {
		if _, ok := models.ParseDecision(string(d)); !ok {
			return fmt.Errorf("%w: unknown decision %q", ErrInvalidPolicy, d)
		}
	}
	return nil
}

// AlertsGate filters signals down to alert candidates.
type AlertsGate struct {
	policy  AlertPolicy
	allowed map[models.Decision]bool
}

func NewAlertsGate(policy AlertPolicy) (*AlertsGate, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	allowed := make(map[models.Decision]bool, len(policy.AllowedDecisions))
	for _, d := range policy.AllowedDecisions {
		allowed[d] = true
	}
	return &AlertsGate{policy: policy, allowed: allowed}, nil
}

func (g *AlertsGate) Policy() AlertPolicy { return g.policy }

// Filter keeps signals whose decision is allowed and whose symbol's top
// article scores at least MinNewsScore. Signals with no linked news are
// never alerted. Output follows signal order.
func (g *AlertsGate) Filter(signals []models.Signal, ranked []models.RankedArticle) []models.AlertCandidate {
	top := TopNewsBySymbol(ranked)
	out := make([]models.AlertCandidate, 0)
	for _, s := range signals {
		if !g.allowed[s.Decision] {
			continue
		}
		a, ok := top[s.Symbol]
		if !ok || a.Score < g.policy.MinNewsScore {
			continue
		}
		out = append(out, models.AlertCandidate{
			Symbol:    s.Symbol,
			Decision:  s.Decision,
			Close:     s.Close,
			Rationale: s.Rationale,
			News: models.AlertNews{
				Score:       a.Score,
				Title:       a.Title,
				Source:      a.Source,
				URL:         a.URL,
				PublishedAt: a.PublishedAt,
			},
		})
	}
	return out
}
