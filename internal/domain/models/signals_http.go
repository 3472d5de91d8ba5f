package models

// Requests for pipeline HTTP endpoints. Defined in domain for consistency and reuse.

type RunRequest struct {
	Prices   []RawPricePoint `json:"prices" validate:"required,min=1"`
	Articles []Article       `json:"articles" validate:"dive"`
}

// RawPricePoint is a posted price row. Timestamp is a time string or unix
// seconds/millis; Close is a number or numeric string. Rows that do not
// parse are dropped and counted, never zero-filled.
type RawPricePoint struct {
	Symbol    string `json:"symbol"`
	Timestamp any    `json:"timestamp"`
	Close     any    `json:"close"`
}

type SummaryRequest struct {
	Symbols      string `query:"symbols" json:"symbols"`
	LookbackDays int    `query:"lookback_days" json:"lookback_days" default:"120" validate:"gte=1,lte=3650"`
	NewsHours    int    `query:"news_hours" json:"news_hours" default:"72" validate:"gte=1,lte=720"`
}

type AlertsRequest struct {
	Symbols      string  `query:"symbols" json:"symbols"`
	LookbackDays int     `query:"lookback_days" json:"lookback_days" default:"120" validate:"gte=1,lte=3650"`
	NewsHours    int     `query:"news_hours" json:"news_hours" default:"72" validate:"gte=1,lte=720"`
	MinScore     float64 `query:"min_score" json:"min_score" validate:"gte=0"`
}
