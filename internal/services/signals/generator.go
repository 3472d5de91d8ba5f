// Package signals turns indicator rows into trade decisions.
package signals

import (
	"strconv"
	"strings"

	"FinSignal/internal/domain/models"
)

const (
	NoteMomentumUp   = "SMA5>SMA20 (momentum up)"
	NoteMomentumDown = "SMA5<SMA20 (momentum down)"
	NoteBullish      = "MACD>0 (bullish confirm)"
	NoteBearish      = "MACD<0 (bearish confirm)"
)

// OversoldNote renders the oversold note for a threshold, e.g. "RSI<30 (oversold)".
func OversoldNote(level float64) string {
	return "RSI<" + strconv.FormatFloat(level, 'f', -1, 64) + " (oversold)"
}

// OverboughtNote renders the overbought note for a threshold.
func OverboughtNote(level float64) string {
	return "RSI>" + strconv.FormatFloat(level, 'f', -1, 64) + " (overbought)"
}

// Thresholds configures the RSI override band.
type Thresholds struct {
	Oversold   float64
	Overbought float64
}

// DefaultThresholds returns the 30/70 band.
func DefaultThresholds() Thresholds { return Thresholds{Oversold: 30, Overbought: 70} }

// Transition maps a decision to its successor. Decisions missing from the map
// are left unchanged.
type Transition map[models.Decision]models.Decision

var (
	// oversoldTransition upgrades buys and neutralizes sells.
	oversoldTransition = Transition{
		models.DecisionBuy:  models.DecisionStrongBuy,
		models.DecisionSell: models.DecisionHold,
	}
	// overboughtTransition upgrades sells and neutralizes buys.
	overboughtTransition = Transition{
		models.DecisionSell: models.DecisionStrongSell,
		models.DecisionBuy:  models.DecisionHold,
	}
)

// Apply returns the successor of d.
func (t Transition) Apply(d models.Decision) models.Decision {
	if next, ok := t[d]; ok {
		return next
	}
	return d
}

// rule inspects the row and the current decision. When it fires it returns
// the note to append and the next decision.
type rule func(row models.IndicatorRow, d models.Decision) (note string, next models.Decision, fired bool)

// Generator evaluates the ordered rule chain.
type Generator struct {
	rules []rule
}

// NewGenerator builds the chain: base trend, RSI override, MACD confirmation.
func NewGenerator(th Thresholds) *Generator {
	return &Generator{rules: []rule{
		trendRule,
		oversoldRule(th.Oversold),
		overboughtRule(th.Overbought),
		bullishConfirmRule,
		bearishConfirmRule,
	}}
}

// Generate is pure: the same row always yields an identical Signal.
func (g *Generator) Generate(row models.IndicatorRow) models.Signal {
	d := models.DecisionHold
	reasons := []string{}
	for _, r := range g.rules {
		note, next, fired := r(row, d)
		if !fired {
			continue
		}
		d = next
		if note != "" {
			reasons = append(reasons, note)
		}
	}
	return models.Signal{
		Symbol:    row.Symbol,
		Close:     row.Close,
		Decision:  d,
		Reasons:   reasons,
		Rationale: strings.Join(reasons, models.RationaleSeparator),
	}
}

// GenerateAll maps Generate over rows, preserving order.
func (g *Generator) GenerateAll(rows []models.IndicatorRow) []models.Signal {
	out := make([]models.Signal, len(rows))
	for i, row := range rows {
		out[i] = g.Generate(row)
	}
	return out
}

func trendRule(row models.IndicatorRow, d models.Decision) (string, models.Decision, bool) {
	if row.SMA5 == nil || row.SMA20 == nil {
		return "", d, false
	}
	switch {
	case *row.SMA5 > *row.SMA20:
		return NoteMomentumUp, models.DecisionBuy, true
	case *row.SMA5 < *row.SMA20:
		return NoteMomentumDown, models.DecisionSell, true
	default:
		return "", models.DecisionHold, true
	}
}

func oversoldRule(level float64) rule {
	return func(row models.IndicatorRow, d models.Decision) (string, models.Decision, bool) {
		if row.RSI14 == nil || *row.RSI14 >= level {
			return "", d, false
		}
		return OversoldNote(level), oversoldTransition.Apply(d), true
	}
}

func overboughtRule(level float64) rule {
	return func(row models.IndicatorRow, d models.Decision) (string, models.Decision, bool) {
		if row.RSI14 == nil || *row.RSI14 <= level {
			return "", d, false
		}
		return OverboughtNote(level), overboughtTransition.Apply(d), true
	}
}

func bullishConfirmRule(row models.IndicatorRow, d models.Decision) (string, models.Decision, bool) {
	if row.MACD == nil || *row.MACD <= 0 || !d.IsBuy() {
		return "", d, false
	}
	return NoteBullish, d, true
}

func bearishConfirmRule(row models.IndicatorRow, d models.Decision) (string, models.Decision, bool) {
	if row.MACD == nil || *row.MACD >= 0 || !d.IsSell() {
		return "", d, false
	}
	return NoteBearish, d, true
}
