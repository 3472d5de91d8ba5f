package usecase

import "FinSignal/internal/domain/models"

// TopNewsBySymbol picks the highest scored article per linked symbol.
// A later article replaces the current best only on a strictly greater score.
// Unlinked articles are ignored.
func TopNewsBySymbol(ranked []models.RankedArticle) map[string]models.RankedArticle {
	top := make(map[string]models.RankedArticle)
	for _, a := range ranked {
		if a.Symbol == nil {
			continue
		}
		best, ok := top[*a.Symbol]
		if !ok || a.Score > best.Score {
			top[*a.Symbol] = a
		}
	}
	return top
}

// BuildSummary emits one row per signal, in signal order, with the best
// article for that symbol attached when there is one.
func BuildSummary(signals []models.Signal, ranked []models.RankedArticle) []models.SummaryRow {
	top := TopNewsBySymbol(ranked)
	rows := make([]models.SummaryRow, 0, len(signals))
	for _, s := range signals {
		row := models.SummaryRow{
			Symbol:    s.Symbol,
			Decision:  s.Decision,
			Close:     s.Close,
			Rationale: s.Rationale,
		}
		if a, ok := top[s.Symbol]; ok {
			row.NewsTop = &a
		}
		rows = append(rows, row)
	}
	return rows
}
