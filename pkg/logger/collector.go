package logger

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Publisher ships a batch of aggregated entries. pkg/kafka's Producer
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value any) error
}

type CollectionConfig struct {
	Interval   time.Duration // flush interval
	MaxEntries int           // distinct entries that force an early flush
	MinLevel   zerolog.Level // events below this level are ignored
	Topic      string
	Source     string // key of every published batch
	Publisher  Publisher
}

// AggregatedLogEntry is one distinct level/message/fields combination seen
// during a flush window.
type AggregatedLogEntry struct {
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
	Count     int            `json:"count"`
	FirstSeen time.Time      `json:"first_seen"`
	LastSeen  time.Time      `json:"last_seen"`
}

// LogCollector deduplicates repeated log events and publishes them in
// batches, so a burst of identical warnings becomes one entry with a count.
type LogCollector struct {
	cfg     CollectionConfig
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]*AggregatedLogEntry
	kick    chan struct{}
	stop    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewLogCollector(cfg CollectionConfig) *LogCollector {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 100
	}
	c := &LogCollector{
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*AggregatedLogEntry),
		kick:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	c.wg.Add(1)
	go c.loop()
	return c
}

// Add records one event. It never blocks on the publisher.
func (c *LogCollector) Add(level zerolog.Level, msg string, fields []Field) {
	if level < c.cfg.MinLevel {
		return
	}
	kv := make(map[string]any, len(fields))
	for _, f := range fields {
		k, v := f.GetKeyValue()
		if v != nil {
			kv[k] = v
		}
	}
	key := entryKey(level, msg, kv)
	now := c.now()

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.Count++
		e.LastSeen = now
	} else {
		c.entries[key] = &AggregatedLogEntry{
			Level:     level.String(),
			Message:   msg,
			Fields:    kv,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}
	full := len(c.entries) >= c.cfg.MaxEntries
	c.mu.Unlock()

	if full {
		select {
		case c.kick <- struct{}{}:
		default:
		}
	}
}

func entryKey(level zerolog.Level, msg string, kv map[string]any) string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(level.String())
	b.WriteByte('|')
	b.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%v", k, kv[k])
	}
	return b.String()
}

func (c *LogCollector) loop() {
	defer c.wg.Done()
	t := time.NewTicker(c.cfg.Interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
		case <-c.kick:
		case <-c.stop:
			c.Flush(context.Background())
			return
		}
		c.Flush(context.Background())
	}
}

// Drain empties the window and returns its entries ordered by first sighting.
func (c *LogCollector) Drain() []AggregatedLogEntry {
	c.mu.Lock()
	out := make([]AggregatedLogEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	c.entries = make(map[string]*AggregatedLogEntry)
	c.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].FirstSeen.Before(out[j].FirstSeen) })
	return out
}

// Flush publishes the current window. Publish failures are written to
// stderr; the logger cannot log about itself without looping.
func (c *LogCollector) Flush(ctx context.Context) {
	batch := c.Drain()
	if len(batch) == 0 || c.cfg.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := c.cfg.Publisher.Publish(ctx, c.cfg.Topic, []byte(c.cfg.Source), batch); err != nil {
		fmt.Fprintf(os.Stderr, "log collector: publish %d entries: %v\n", len(batch), err)
	}
}

// Close stops the flush loop after a final flush.
func (c *LogCollector) Close() {
	c.once.Do(func() { close(c.stop) })
	c.wg.Wait()
}
