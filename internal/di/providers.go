package di

import (
	"context"
	"fmt"
	"time"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/repository"
	"FinSignal/internal/handler/api"
	internalrepo "FinSignal/internal/repository"
	icache "FinSignal/internal/service/cache"
	"FinSignal/internal/service/ratelimit"
	"FinSignal/internal/services/indicators"
	"FinSignal/internal/services/news"
	"FinSignal/internal/services/signals"
	"FinSignal/internal/usecase"
	pkgch "FinSignal/pkg/clickhouse"
	"FinSignal/pkg/config"
	xhttp "FinSignal/pkg/http"
	pkgkafka "FinSignal/pkg/kafka"
	applogger "FinSignal/pkg/logger"
	"FinSignal/pkg/metrics"
	"FinSignal/pkg/server"

	"github.com/rs/zerolog"
)

// Stores groups the store implementations selected by config.
type Stores struct {
	Prices    repository.PriceStore
	News      repository.NewsStore
	Summaries repository.SummaryStore
}

// ProvideLogCollector ships aggregated warn-and-above events to the logs
// topic. It returns nil when Kafka or log shipping is disabled.
func ProvideLogCollector(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.LogCollector, error) {
	ls := cfg.Kafka.LogShipping
	if producer == nil || !ls.Enabled {
		return nil, nil
	}
	level, err := zerolog.ParseLevel(ls.MinLevel)
	if err != nil {
		return nil, fmt.Errorf("log shipping level: %w", err)
	}
	return applogger.NewLogCollector(applogger.CollectionConfig{
		Interval:   ls.Interval,
		MaxEntries: ls.MaxEntries,
		MinLevel:   level,
		Topic:      cfg.Kafka.LogsTopic,
		Source:     "finsignal-" + cfg.Environment,
		Publisher:  producer,
	}), nil
}

// ProvideLogger builds the application logger from the log section and
// attaches the collector when one exists.
func ProvideLogger(cfg *config.Config, collector *applogger.LogCollector) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if collector != nil {
		l = l.WithCollector(collector)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideAliasTable loads the symbol alias registry.
func ProvideAliasTable(cfg *config.Config) (*models.AliasTable, error) {
	return config.LoadAliases(cfg.Pipeline.AliasesFile)
}

// ProvidePipeline assembles the core stages from the pipeline section.
func ProvidePipeline(cfg *config.Config, aliases *models.AliasTable, m repository.Metrics, l *applogger.Logger) (*usecase.Pipeline, error) {
	p := cfg.Pipeline
	decisions, err := p.Decisions()
	if err != nil {
		return nil, err
	}
	gate, err := usecase.NewAlertsGate(usecase.AlertPolicy{
		MinNewsScore:     p.MinNewsScore,
		AllowedDecisions: decisions,
	})
	if err != nil {
		return nil, fmt.Errorf("alerts gate: %w", err)
	}

	trust := news.DefaultTrustTable()
	if len(p.TrustTable) > 0 {
		trust = news.NewTrustTable(p.TrustTable)
	}

	engine := indicators.NewEngine(indicators.Config{
		FastPeriod: p.FastPeriod,
		SlowPeriod: p.SlowPeriod,
		RSIPeriod:  p.RSIPeriod,
		MACDFast:   p.MACDSpans[0],
		MACDSlow:   p.MACDSpans[1],
		Workers:    p.Workers,
	})
	generator := signals.NewGenerator(signals.Thresholds{
		Oversold:   p.RSIOversold,
		Overbought: p.RSIOverbought,
	})

	return usecase.NewPipeline(engine, generator, news.NewLinker(aliases), news.NewRanker(trust), gate,
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
	), nil
}

// ProvideClickHouseClient connects and initializes the schema. It returns
// nil when ClickHouse is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	c := cfg.ClickHouse
	if !c.Enabled {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(c.Host),
		pkgch.WithPort(c.Port),
		pkgch.WithDatabase(c.Database),
		pkgch.WithCredentials(c.User, c.Password),
		pkgch.WithHTTP(c.UseHTTP),
		pkgch.WithPool(10, 5),
		pkgch.WithTimeouts(c.DialTimeout, c.ReadTimeout),
		pkgch.WithMaxExecutionTime(c.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	if err := client.InitSchema(ctx, pkgch.Schema(c.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideStores picks ClickHouse stores when a client exists and a shared
// in-memory store otherwise.
func ProvideStores(ch *pkgch.Client, l *applogger.Logger) Stores {
	if ch == nil {
		mem := internalrepo.NewMemoryStore()
		return Stores{Prices: mem, News: mem, Summaries: mem}
	}
	return Stores{
		Prices:    internalrepo.NewCHPriceStore(ch, l),
		News:      internalrepo.NewCHNewsStore(ch, l),
		Summaries: internalrepo.NewCHSummaryStore(ch, l),
	}
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	k := cfg.Kafka
	if !k.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithBatching(k.Producer.BatchSize, k.Producer.Linger),
		pkgkafka.WithWriteTimeout(k.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(k.Producer.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAlertPublisher publishes to Kafka when a producer exists and logs
// alerts otherwise.
func ProvideAlertPublisher(cfg *config.Config, producer *pkgkafka.Producer, l *applogger.Logger) repository.AlertPublisher {
	if producer == nil {
		return internalrepo.NewLogAlertPublisher(l)
	}
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic)
}

// ProvideKafkaConsumer returns nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	k := cfg.Kafka
	if !k.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(k.Brokers),
		pkgkafka.WithConsumerGroupID(k.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(k.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(k.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(k.Consumer.RetryMax, k.Consumer.BackoffMin, k.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(k.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaHandlers builds the ingest handlers for the price and news topics.
func ProvideKafkaHandlers(cfg *config.Config, stores Stores, m repository.Metrics) []pkgkafka.MessageHandler {
	return []pkgkafka.MessageHandler{
		usecase.NewKafkaPricesHandler(cfg.Kafka.PricesTopic, stores.Prices, m),
		usecase.NewKafkaNewsHandler(cfg.Kafka.NewsTopic, stores.News, m),
	}
}

// ProvideIntelligenceService binds the pipeline to its stores and publisher.
func ProvideIntelligenceService(
	cfg *config.Config,
	stores Stores,
	publisher repository.AlertPublisher,
	pipeline *usecase.Pipeline,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.IntelligenceService {
	u := cfg.Universe
	return usecase.NewIntelligenceService(stores.Prices, stores.News, stores.Summaries, publisher, pipeline,
		usecase.Universe{
			Symbols:      u.Symbols,
			LookbackDays: u.LookbackDays,
			NewsHours:    u.NewsHours,
			NewsLimit:    u.NewsLimit,
		},
		m, l)
}

// ProvideResponseCache fronts Redis with an in-process layer when Redis is
// enabled and uses the in-process TTL cache alone otherwise.
func ProvideResponseCache(cfg *config.Config) icache.BytesCache {
	r := cfg.Redis
	if !r.Enabled {
		return icache.NewTTLCache()
	}
	redis := icache.NewRedisCache(icache.RedisConfig{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
		Prefix:   r.Prefix,
	})
	return icache.NewLayeredCache(redis, r.LocalTTL)
}

// ProvideHTTPHandler creates the intelligence API handler.
func ProvideHTTPHandler(cfg *config.Config, l *applogger.Logger, svc *usecase.IntelligenceService, c icache.BytesCache) xhttp.Handler {
	rl := cfg.Server.RateLimit
	return api.NewIntelligenceHandler(l, svc,
		api.WithCache(c, cfg.Server.CacheTTL),
		api.WithRateLimit(ratelimit.New(rl.Burst, rl.RefillPerSec)),
	)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	svc *usecase.IntelligenceService,
	handler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	handlers []pkgkafka.MessageHandler,
	ch *pkgch.Client,
	publisher repository.AlertPublisher,
	c icache.BytesCache,
	collector *applogger.LogCollector,
) *server.App {
	return server.New(cfg, l, svc,
		server.WithHTTPHandler(handler),
		server.WithLogCollector(collector),
		server.WithConsumer(consumer, handlers...),
		server.WithClickHouse(ch),
		server.WithAlertPublisher(publisher),
		server.WithCache(c),
	)
}
