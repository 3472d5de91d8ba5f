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

// CHNewsStore implements NewsStore backed by ClickHouse.
type CHNewsStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.NewsStore = (*CHNewsStore)(nil)

func NewCHNewsStore(ch *pkgch.Client, l *applogger.Logger) *CHNewsStore {
	return &CHNewsStore{db: ch.DB(), table: ch.Table("news"), l: orNop(l)}
}

// GetArticles returns articles ingested since the given time, newest first.
func (s *CHNewsStore) GetArticles(ctx context.Context, since time.Time, limit int) ([]models.Article, error) {
	q := fmt.Sprintf(`
        SELECT title, description, url, source, published_at, symbol_hint
        FROM %s FINAL
        WHERE ingested_at >= ?
        ORDER BY ingested_at DESC
        LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, q, since.UTC(), limit)
	if err != nil {
		s.l.Error("clickhouse get_articles query error", applogger.String("table", s.table), applogger.Error(err))
		return nil, fmt.Errorf("get articles: %w", err)
	}
	defer rows.Close()

	var out []models.Article
	for rows.Next() {
		var (
			a    models.Article
			hint sql.NullString
		)
		if err := rows.Scan(&a.Title, &a.Description, &a.URL, &a.Source, &a.PublishedAt, &hint); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		if hint.Valid {
			a.SymbolHint = models.String(hint.String)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// StoreArticles inserts raw articles; ReplacingMergeTree collapses repeats.
func (s *CHNewsStore) StoreArticles(ctx context.Context, articles []models.Article) error {
	for start := 0; start < len(articles); start += insertChunk {
		end := min(start+insertChunk, len(articles))
		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*6)
		for _, a := range articles[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args, a.Title, a.Description, a.URL, a.Source, a.PublishedAt, nullString(a.SymbolHint))
		}
		q := fmt.Sprintf("INSERT INTO %s (title, description, url, source, published_at, symbol_hint) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.l.Error("clickhouse store_articles error", applogger.Int("rows", len(values)), applogger.Error(err))
			return fmt.Errorf("store articles: %w", err)
		}
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
