package models

import "time"

// PipelineResult is the materialized output of one pipeline run.
// Note: no transport (json/http) concerns beyond field tags.
type PipelineResult struct {
	RunAt      time.Time        `json:"run_at"`
	Indicators []IndicatorRow   `json:"indicators"`
	Signals    []Signal         `json:"signals"`
	News       []RankedArticle  `json:"news"`
	Summary    []SummaryRow     `json:"summary"`
	Alerts     []AlertCandidate `json:"alerts"`
	Dropped    DropStats        `json:"dropped"`
}

// DropStats counts malformed inputs discarded during a run.
type DropStats struct {
	Prices   int `json:"prices"`
	Articles int `json:"articles"`
}
