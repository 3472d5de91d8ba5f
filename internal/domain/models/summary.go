package models

// SummaryRow joins a signal with the best news item for its symbol.
type SummaryRow struct {
	Symbol    string         `json:"symbol"`
	Decision  Decision       `json:"decision"`
	Close     float64        `json:"close"`
	Rationale string         `json:"rationale"`
	NewsTop   *RankedArticle `json:"news_top"`
}

// AlertNews is the news excerpt attached to an alert.
type AlertNews struct {
	Score       float64 `json:"score"`
	Title       string  `json:"title"`
	Source      string  `json:"source"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"published_at"`
}

// AlertCandidate is a signal that passed the alert policy gate.
type AlertCandidate struct {
	Symbol    string    `json:"symbol"`
	Decision  Decision  `json:"decision"`
	Close     float64   `json:"close"`
	Rationale string    `json:"rationale"`
	News      AlertNews `json:"news"`
}
