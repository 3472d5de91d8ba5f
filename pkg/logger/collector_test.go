package logger

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchPublisher struct {
	mu      sync.Mutex
	topic   string
	key     string
	batches [][]AggregatedLogEntry
	err     error
}

func (p *batchPublisher) Publish(_ context.Context, topic string, key []byte, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.key = string(key)
	p.batches = append(p.batches, value.([]AggregatedLogEntry))
	return p.err
}

func (p *batchPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.batches)
}

func newTestCollector(pub Publisher, maxEntries int) *LogCollector {
	return NewLogCollector(CollectionConfig{
		Interval:   time.Hour,
		MaxEntries: maxEntries,
		MinLevel:   zerolog.WarnLevel,
		Topic:      "finsignal.logs",
		Source:     "finsignal-test",
		Publisher:  pub,
	})
}

func TestCollectorAggregatesRepeats(t *testing.T) {
	pub := &batchPublisher{}
	c := newTestCollector(pub, 100)
	defer c.Close()

	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tick := t0
	c.now = func() time.Time { tick = tick.Add(time.Second); return tick }

	for i := 0; i < 3; i++ {
		c.Add(zerolog.WarnLevel, "dropped tick", []Field{String("symbol", "AAPL")})
	}
	c.Add(zerolog.WarnLevel, "dropped tick", []Field{String("symbol", "MSFT")})
	c.Add(zerolog.ErrorLevel, "publish failed", []Field{Error(errors.New("broker down")), Error(nil)})
	c.Add(zerolog.InfoLevel, "below threshold", nil)

	c.Flush(context.Background())
	require.Equal(t, 1, pub.count())
	assert.Equal(t, "finsignal.logs", pub.topic)
	assert.Equal(t, "finsignal-test", pub.key)

	batch := pub.batches[0]
	require.Len(t, batch, 3)
	assert.Equal(t, "dropped tick", batch[0].Message)
	assert.Equal(t, "warn", batch[0].Level)
	assert.Equal(t, 3, batch[0].Count)
	assert.Equal(t, "AAPL", batch[0].Fields["symbol"])
	assert.Equal(t, t0.Add(time.Second), batch[0].FirstSeen)
	assert.Equal(t, t0.Add(3*time.Second), batch[0].LastSeen)
	assert.Equal(t, "MSFT", batch[1].Fields["symbol"])
	assert.Equal(t, 1, batch[1].Count)
	assert.Equal(t, "error", batch[2].Level)
	assert.Equal(t, "broker down", batch[2].Fields["error"])

	c.Flush(context.Background())
	assert.Equal(t, 1, pub.count(), "empty window publishes nothing")
}

func TestCollectorFlushesWhenFull(t *testing.T) {
	pub := &batchPublisher{}
	c := newTestCollector(pub, 2)
	defer c.Close()

	c.Add(zerolog.WarnLevel, "a", nil)
	c.Add(zerolog.WarnLevel, "b", nil)

	assert.Eventually(t, func() bool { return pub.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestCollectorCloseFlushes(t *testing.T) {
	pub := &batchPublisher{err: errors.New("unavailable")}
	c := newTestCollector(pub, 100)
	c.Add(zerolog.ErrorLevel, "last words", nil)

	c.Close()
	c.Close()
	require.Equal(t, 1, pub.count())
	assert.Equal(t, "last words", pub.batches[0][0].Message)
}

func TestLoggerFeedsCollector(t *testing.T) {
	pub := &batchPublisher{}
	c := newTestCollector(pub, 100)
	defer c.Close()

	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel).WithCollector(c).With(String("env", "test"))
	l.Info("routine")
	l.Warn("stale feed", String("symbol", "NVDA"))
	l.Warn("stale feed", String("symbol", "NVDA"))

	assert.Contains(t, buf.String(), "stale feed")
	entries := c.Drain()
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Count)
	assert.Equal(t, "test", entries[0].Fields["env"])
	assert.Equal(t, "NVDA", entries[0].Fields["symbol"])
}
