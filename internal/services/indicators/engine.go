// Package indicators computes technical indicators over per-symbol close series.
package indicators

import (
	"math"
	"sort"
	"sync"

	"FinSignal/internal/domain/models"
)

// Config selects indicator periods.
type Config struct {
	FastPeriod int
	SlowPeriod int
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	// Workers bounds the per-symbol fan-out. Values below 2 run sequentially.
	Workers int
}

// DefaultConfig returns the classic 5/20 SMA, 12/26 MACD and 14 RSI setup.
func DefaultConfig() Config {
	return Config{FastPeriod: 5, SlowPeriod: 20, RSIPeriod: 14, MACDFast: 12, MACDSlow: 26, Workers: 1}
}

// Engine computes the latest IndicatorRow per symbol.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine { return &Engine{cfg: cfg} }

// Series is one symbol's cleaned, time-ordered close history.
type Series struct {
	Symbol string
	Closes []float64
}

// GroupSeries drops unusable points and groups the rest per symbol in
// first-appearance order, each sorted by timestamp ascending (stable).
// It returns the number of dropped points.
func GroupSeries(points []models.PricePoint) ([]Series, int) {
	type bucket struct {
		symbol string
		points []models.PricePoint
	}
	var buckets []*bucket
	bySymbol := make(map[string]*bucket)
	dropped := 0
	for _, p := range points {
		if p.Symbol == "" || math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			dropped++
			continue
		}
		b, ok := bySymbol[p.Symbol]
		if !ok {
			b = &bucket{symbol: p.Symbol}
			bySymbol[p.Symbol] = b
			buckets = append(buckets, b)
		}
		b.points = append(b.points, p)
	}

	out := make([]Series, 0, len(buckets))
	for _, b := range buckets {
		sort.SliceStable(b.points, func(i, j int) bool {
			return b.points[i].Timestamp.Before(b.points[j].Timestamp)
		})
		closes := make([]float64, len(b.points))
		for i, p := range b.points {
			closes[i] = p.Close
		}
		out = append(out, Series{Symbol: b.symbol, Closes: closes})
	}
	return out, dropped
}

// Compute returns one row per symbol that has at least one usable point.
func (e *Engine) Compute(points []models.PricePoint) []models.IndicatorRow {
	rows, _ := e.ComputeWithStats(points)
	return rows
}

// ComputeWithStats is Compute plus the number of dropped points.
func (e *Engine) ComputeWithStats(points []models.PricePoint) ([]models.IndicatorRow, int) {
	series, dropped := GroupSeries(points)
	rows := make([]models.IndicatorRow, len(series))

	if e.cfg.Workers < 2 || len(series) < 2 {
		for i, s := range series {
			rows[i] = e.ComputeSeries(s.Symbol, s.Closes)
		}
		return rows, dropped
	}

	// each worker writes only its own index so output order stays stable
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(e.cfg.Workers, len(series)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rows[i] = e.ComputeSeries(series[i].Symbol, series[i].Closes)
			}
		}()
	}
	for i := range series {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return rows, dropped
}

// ComputeSeries evaluates every indicator over closes and keeps the last values.
// closes must be non-empty and ordered oldest first.
func (e *Engine) ComputeSeries(symbol string, closes []float64) models.IndicatorRow {
	row := models.IndicatorRow{Symbol: symbol}
	if len(closes) == 0 {
		return row
	}
	row.Close = closes[len(closes)-1]
	row.SMA5 = last(SMA(closes, e.cfg.FastPeriod))
	row.SMA20 = last(SMA(closes, e.cfg.SlowPeriod))
	row.EMA12 = last(EMA(closes, e.cfg.MACDFast))
	row.EMA26 = last(EMA(closes, e.cfg.MACDSlow))
	row.MACD = Diff(row.EMA12, row.EMA26)
	row.RSI14 = last(RSI(closes, e.cfg.RSIPeriod))
	return row
}
