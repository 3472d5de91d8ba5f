package clickhouse

import "fmt"

// Schema returns the DDL for the prices, news and summary tables.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.prices (
	symbol LowCardinality(String),
	ts DateTime64(3, 'UTC'),
	close Float64
) ENGINE = MergeTree
ORDER BY (symbol, ts)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.news (
	title String,
	description String,
	url String,
	source LowCardinality(String),
	published_at String,
	symbol_hint Nullable(String),
	ingested_at DateTime64(3, 'UTC') DEFAULT now64(3)
) ENGINE = ReplacingMergeTree(ingested_at)
ORDER BY (url, title)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.signal_summary (
	run_at DateTime64(3, 'UTC'),
	symbol LowCardinality(String),
	decision LowCardinality(String),
	close Float64,
	rationale String,
	news_score Nullable(Float64),
	news_title Nullable(String),
	news_source Nullable(String),
	news_url Nullable(String),
	news_published_at Nullable(String)
) ENGINE = MergeTree
ORDER BY (symbol, run_at)`, database),
	}
}
