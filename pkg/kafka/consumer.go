package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"FinSignal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// Consumer fans messages from per-topic readers into a worker pool.
// Failed messages are retried with jittered backoff, then sent to the DLQ
// when one is configured.
type Consumer struct {
	cfg      ConsumerConfig
	log      *logger.Logger
	readers  map[string]*kafka.Reader
	handlers map[string]MessageHandler
	msgs     chan kafka.Message
	dlq      *kafka.Writer
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewConsumer(log *logger.Logger, opts ...ConsumerOption) (*Consumer, error) {
	cfg := ConsumerConfig{
		GroupID:     "finsignal",
		WorkerCount: 1,
		BufferSize:  64,
		RetryMax:    3,
		BackoffMin:  50 * time.Millisecond,
		BackoffMax:  2 * time.Second,
		MinBytes:    10e3,
		MaxBytes:    10e6,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if log == nil {
		log = logger.Nop()
	}

	c := &Consumer{
		cfg:      cfg,
		log:      log.With(logger.String("component", "kafka_consumer")),
		readers:  make(map[string]*kafka.Reader),
		handlers: make(map[string]MessageHandler),
		msgs:     make(chan kafka.Message, cfg.BufferSize),
		stop:     make(chan struct{}),
	}
	if cfg.DLQTopic != "" {
		c.dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Topic: cfg.DLQTopic, Balancer: &kafka.LeastBytes{}}
	}
	initConsumerMetrics()
	return c, nil
}

// RegisterHandler binds h to its topic; the first registration wins.
func (c *Consumer) RegisterHandler(h MessageHandler) {
	if _, ok := c.handlers[h.Topic()]; ok {
		c.log.Warn("handler already registered", logger.String("topic", h.Topic()))
		return
	}
	c.handlers[h.Topic()] = h
}

// Start launches readers and workers. It returns immediately.
func (c *Consumer) Start() error {
	if len(c.handlers) == 0 {
		return errors.New("kafka consumer: no handlers registered")
	}
	for topic := range c.handlers {
		c.readers[topic] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.cfg.Brokers,
			Topic:    topic,
			GroupID:  c.cfg.GroupID,
			MinBytes: c.cfg.MinBytes,
			MaxBytes: c.cfg.MaxBytes,
		})
	}
	var readers sync.WaitGroup
	for topic, r := range c.readers {
		topic, r := topic, r
		readers.Add(1)
		go func() {
			defer readers.Done()
			c.read(topic, r)
		}()
	}
	for i := 0; i < c.cfg.WorkerCount; i++ {
		c.wg.Add(1)
		go c.work()
	}
	go func() {
		readers.Wait()
		close(c.msgs)
	}()
	c.log.Info("kafka consumer started",
		logger.Int("workers", c.cfg.WorkerCount),
		logger.Int("topics", len(c.readers)),
	)
	return nil
}

// Stop signals readers, drains workers and closes connections.
func (c *Consumer) Stop(ctx context.Context) error {
	var err error
	c.stopOnce.Do(func() {
		close(c.stop)
		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-ctx.Done():
			err = fmt.Errorf("kafka consumer stop: %w", ctx.Err())
		case <-done:
		}
		for topic, r := range c.readers {
			if cerr := r.Close(); cerr != nil {
				c.log.Error("close reader", logger.String("topic", topic), logger.Error(cerr))
			}
		}
		if c.dlq != nil {
			_ = c.dlq.Close()
		}
	})
	return err
}

func (c *Consumer) read(topic string, r *kafka.Reader) {
	for {
		select {
		case <-c.stop:
			return
		default:
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		m, err := r.FetchMessage(ctx)
		cancel()
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				c.log.Error("fetch message", logger.String("topic", topic), logger.Error(err))
			}
			continue
		}
		select {
		case c.msgs <- m:
			consumerQueueDepth.WithLabelValues(topic).Set(float64(len(c.msgs)))
		case <-c.stop:
			return
		}
	}
}

func (c *Consumer) work() {
	defer c.wg.Done()
	for m := range c.msgs {
		c.process(m)
	}
}

func (c *Consumer) process(m kafka.Message) {
	h, ok := c.handlers[m.Topic]
	if !ok {
		return
	}
	start := time.Now()
	err := c.handleWithRetry(h, m)
	result := "ok"
	if err != nil {
		result = "error"
		c.log.Error("handle message",
			logger.String("topic", m.Topic),
			logger.Int("partition", m.Partition),
			logger.Error(err),
		)
		if c.dlq != nil {
			dlqErr := c.dlq.WriteMessages(context.Background(), kafka.Message{
				Key:     m.Key,
				Value:   m.Value,
				Headers: []kafka.Header{{Key: "source_topic", Value: []byte(m.Topic)}},
			})
			if dlqErr != nil {
				c.log.Error("write dlq", logger.String("topic", c.cfg.DLQTopic), logger.Error(dlqErr))
			}
		}
	}
	consumerHandled.WithLabelValues(m.Topic, result).Inc()
	consumerLatency.WithLabelValues(m.Topic).Observe(time.Since(start).Seconds())

	// Commit on success or after DLQ so poison messages do not loop.
	if err == nil || c.dlq != nil {
		if r := c.readers[m.Topic]; r != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if cerr := r.CommitMessages(ctx, m); cerr != nil {
				c.log.Error("commit offset", logger.String("topic", m.Topic), logger.Error(cerr))
			}
			cancel()
		}
	}
}

func (c *Consumer) handleWithRetry(h MessageHandler, m kafka.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in handler: %v", r)
		}
	}()
	for attempt := 1; ; attempt++ {
		err = h.Handle(context.Background(), m.Value)
		if err == nil || attempt > c.cfg.RetryMax {
			return err
		}
		select {
		case <-time.After(Backoff(c.cfg.BackoffMin, c.cfg.BackoffMax, attempt)):
		case <-c.stop:
			return err
		}
	}
}

// Backoff returns an exponential delay capped at max with up to 50% jitter.
func Backoff(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	if attempt < 1 {
		attempt = 1
	}
	d := max
	if attempt < 32 {
		if exp := min << uint(attempt-1); exp > 0 && exp < max {
			d = exp
		}
	}
	return d - time.Duration(rand.Int63n(int64(d)/2+1))
}

var (
	consumerMetricsOnce sync.Once
	consumerQueueDepth  *prometheus.GaugeVec
	consumerHandled     *prometheus.CounterVec
	consumerLatency     *prometheus.HistogramVec
)

func initConsumerMetrics() {
	consumerMetricsOnce.Do(func() {
		consumerQueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "finsignal_kafka_consumer_queue_depth",
			Help: "Messages waiting in the consumer queue",
		}, []string{"topic"})
		consumerHandled = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finsignal_kafka_consumer_messages_total",
			Help: "Messages handled by result",
		}, []string{"topic", "result"})
		consumerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name: "finsignal_kafka_consumer_handle_seconds",
			Help: "Handling time per message",
		}, []string{"topic"})
	})
}
