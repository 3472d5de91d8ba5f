package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkgch "FinSignal/pkg/clickhouse"
	applogger "FinSignal/pkg/logger"
)

// CHSummaryStore persists summary rows, one batch per run.
type CHSummaryStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.SummaryStore = (*CHSummaryStore)(nil)

func NewCHSummaryStore(ch *pkgch.Client, l *applogger.Logger) *CHSummaryStore {
	return &CHSummaryStore{db: ch.DB(), table: ch.Table("signal_summary"), l: orNop(l)}
}

func (s *CHSummaryStore) StoreSummary(ctx context.Context, runAt time.Time, rows []models.SummaryRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*10)
	for _, r := range rows {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, runAt.UTC(), r.Symbol, string(r.Decision), r.Close, r.Rationale)
		args = append(args, summaryNewsArgs(r.NewsTop)...)
	}
	q := fmt.Sprintf(`INSERT INTO %s (run_at, symbol, decision, close, rationale,
        news_score, news_title, news_source, news_url, news_published_at) VALUES %s`,
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		s.l.Error("clickhouse store_summary error", applogger.Int("rows", len(rows)), applogger.Error(err))
		return fmt.Errorf("store summary: %w", err)
	}
	return nil
}

func summaryNewsArgs(top *models.RankedArticle) []any {
	if top == nil {
		return []any{sql.NullFloat64{}, sql.NullString{}, sql.NullString{}, sql.NullString{}, sql.NullString{}}
	}
	return []any{
		sql.NullFloat64{Float64: top.Score, Valid: true},
		sql.NullString{String: top.Title, Valid: true},
		sql.NullString{String: top.Source, Valid: true},
		sql.NullString{String: top.URL, Valid: true},
		sql.NullString{String: top.PublishedAt, Valid: true},
	}
}
