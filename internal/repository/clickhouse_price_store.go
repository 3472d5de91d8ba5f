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

const insertChunk = 2000

// CHPriceStore implements PriceStore backed by ClickHouse.
type CHPriceStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.PriceStore = (*CHPriceStore)(nil)

func NewCHPriceStore(ch *pkgch.Client, l *applogger.Logger) *CHPriceStore {
	return &CHPriceStore{db: ch.DB(), table: ch.Table("prices"), l: orNop(l)}
}

// GetPrices returns points for symbols since from, ordered by symbol then time.
// An empty symbol list selects every symbol.
func (s *CHPriceStore) GetPrices(ctx context.Context, symbols []string, from time.Time) ([]models.PricePoint, error) {
	q, args := pricesQuery(s.table, symbols, from)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse get_prices query error",
			applogger.String("table", s.table),
			applogger.Strings("symbols", symbols),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("get prices: %w", err)
	}
	defer rows.Close()

	out := make([]models.PricePoint, 0, 1024)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Symbol, &p.Timestamp, &p.Close); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		p.Timestamp = p.Timestamp.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	s.l.Debug("clickhouse get_prices ok",
		applogger.Int("symbols", len(symbols)),
		applogger.Int("rows", len(out)),
	)
	return out, nil
}

// StorePrices inserts points with multi-row VALUES in chunks.
func (s *CHPriceStore) StorePrices(ctx context.Context, points []models.PricePoint) error {
	for start := 0; start < len(points); start += insertChunk {
		end := min(start+insertChunk, len(points))
		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*3)
		for _, p := range points[start:end] {
			values = append(values, "(?, ?, ?)")
			args = append(args, p.Symbol, p.Timestamp.UTC(), p.Close)
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, ts, close) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.l.Error("clickhouse store_prices error", applogger.Int("rows", len(values)), applogger.Error(err))
			return fmt.Errorf("store prices: %w", err)
		}
	}
	return nil
}

func pricesQuery(table string, symbols []string, from time.Time) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT symbol, ts, close FROM %s WHERE ts >= ?", table)
	args := []any{from.UTC()}
	if len(symbols) > 0 {
		b.WriteString(" AND symbol IN (")
		for i, sym := range symbols {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("?")
			args = append(args, sym)
		}
		b.WriteString(")")
	}
	b.WriteString(" ORDER BY symbol ASC, ts ASC")
	return b.String(), args
}

func orNop(l *applogger.Logger) *applogger.Logger {
	if l == nil {
		return applogger.Nop()
	}
	return l
}
