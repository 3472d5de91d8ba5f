// Package service declares the pipeline stage contracts.
package service

import "FinSignal/internal/domain/models"

// IndicatorEngine turns price points into one IndicatorRow per symbol and
// reports how many points it dropped as malformed.
type IndicatorEngine interface {
	ComputeWithStats(points []models.PricePoint) ([]models.IndicatorRow, int)
}

// SignalGenerator derives one Signal per IndicatorRow, preserving order.
type SignalGenerator interface {
	GenerateAll(rows []models.IndicatorRow) []models.Signal
}

// NewsLinker resolves articles to symbols and reports dropped articles.
type NewsLinker interface {
	LinkWithStats(articles []models.Article) ([]models.LinkedArticle, int, error)
}

// NewsRanker scores and orders linked articles.
type NewsRanker interface {
	Rank(linked []models.LinkedArticle) []models.RankedArticle
}

// AlertFilter gates signals into alert candidates.
type AlertFilter interface {
	Filter(signals []models.Signal, ranked []models.RankedArticle) []models.AlertCandidate
}
