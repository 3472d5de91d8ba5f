package models

import "time"

// PricePoint is a single close observation for a symbol.
// Duplicates on (Symbol, Timestamp) are passed through untouched.
type PricePoint struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Close     float64   `json:"close"`
}

// IndicatorRow holds the latest indicator state of one symbol.
// Pointer fields stay nil until their minimum period is met.
type IndicatorRow struct {
	Symbol string   `json:"symbol"`
	Close  float64  `json:"close"`
	SMA5   *float64 `json:"sma_5"`
	SMA20  *float64 `json:"sma_20"`
	EMA12  *float64 `json:"ema_12"`
	EMA26  *float64 `json:"ema_26"`
	MACD   *float64 `json:"macd"`
	RSI14  *float64 `json:"rsi_14"`
}

// Float returns a pointer to v. Handy for building rows in tests and adapters.
func Float(v float64) *float64 { return &v }
