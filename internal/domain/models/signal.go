package models

import "strings"

// Decision is the discrete trade decision emitted for a symbol.
type Decision string

const (
	DecisionBuy        Decision = "BUY"
	DecisionStrongBuy  Decision = "BUY+"
	DecisionSell       Decision = "SELL"
	DecisionStrongSell Decision = "SELL+"
	DecisionHold       Decision = "HOLD"
)

// AllDecisions lists every decision in a stable order.
var AllDecisions = []Decision{DecisionBuy, DecisionStrongBuy, DecisionSell, DecisionStrongSell, DecisionHold}

// ParseDecision converts raw text into a Decision.
func ParseDecision(s string) (Decision, bool) {
	d := Decision(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllDecisions {
		if d == known {
			return d, true
		}
	}
	return "", false
}

// IsBuy reports whether the decision is a buy-side action.
func (d Decision) IsBuy() bool { return strings.HasPrefix(string(d), string(DecisionBuy)) }

// IsSell reports whether the decision is a sell-side action.
func (d Decision) IsSell() bool { return strings.HasPrefix(string(d), string(DecisionSell)) }

// RationaleSeparator joins signal reasons for display.
const RationaleSeparator = "; "

// Signal is the decision derived from one IndicatorRow. Immutable after creation.
type Signal struct {
	Symbol    string   `json:"symbol"`
	Close     float64  `json:"close"`
	Decision  Decision `json:"decision"`
	Reasons   []string `json:"reasons"`
	Rationale string   `json:"rationale"`
}
