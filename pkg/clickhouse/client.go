package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
)

var ErrHostRequired = errors.New("clickhouse: host is required")

// Client wraps a pooled database/sql handle.
type Client struct {
	db       *sql.DB
	database string
}

// NewClient opens the pool and pings the server.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Host == "" {
		return nil, ErrHostRequired
	}

	db, err := sql.Open("clickhouse", DSN(o))
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	db.SetMaxOpenConns(o.MaxOpenConns)
	db.SetMaxIdleConns(o.MaxIdleConns)
	db.SetConnMaxLifetime(o.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, o.DialTimeout+time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	return &Client{db: db, database: o.Database}, nil
}

// NewFromDB wraps an existing handle.
func NewFromDB(db *sql.DB, database string) *Client {
	return &Client{db: db, database: database}
}

func (c *Client) DB() *sql.DB { return c.db }

// Table qualifies name with the configured database.
func (c *Client) Table(name string) string { return c.database + "." + name }

func (c *Client) Health(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// InitSchema runs idempotent DDL statements in order.
func (c *Client) InitSchema(ctx context.Context, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema stmt %d: %w", i, err)
		}
	}
	return nil
}

// DSN renders a clickhouse-go DSN from options.
func DSN(o Options) string {
	scheme := "clickhouse"
	if o.UseHTTP {
		scheme = "http"
	}
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(o.User, o.Password),
		Host:   o.Host + ":" + strconv.Itoa(o.Port),
		Path:   "/" + o.Database,
	}
	q := url.Values{}
	if o.DialTimeout > 0 {
		q.Set("dial_timeout", o.DialTimeout.String())
	}
	if o.ReadTimeout > 0 {
		q.Set("read_timeout", o.ReadTimeout.String())
	}
	if o.MaxExecTime > 0 {
		q.Set("max_execution_time", strconv.Itoa(int(o.MaxExecTime.Seconds())))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
