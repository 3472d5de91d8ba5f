package di

import (
	"os"
	"path/filepath"
	"testing"

	"FinSignal/internal/domain/repository"
	internalrepo "FinSignal/internal/repository"
	icache "FinSignal/internal/service/cache"
	"FinSignal/pkg/config"
	applogger "FinSignal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  - symbol: AAPL\n    aliases: [Apple]\n"), 0o644))
	cfg.Pipeline.AliasesFile = path
	return cfg
}

func TestProvidePipeline(t *testing.T) {
	cfg := testConfig(t)
	aliases, err := ProvideAliasTable(cfg)
	require.NoError(t, err)

	p, err := ProvidePipeline(cfg, aliases, repository.NopMetrics{}, applogger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, p)

	cfg.Pipeline.AllowedDecisions = []string{"MAYBE"}
	_, err = ProvidePipeline(cfg, aliases, repository.NopMetrics{}, applogger.Nop())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestProvideAliasTable_Missing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.AliasesFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := ProvideAliasTable(cfg)
	assert.Error(t, err)
}

func TestDisabledInfrastructure(t *testing.T) {
	cfg := testConfig(t)

	ch, err := ProvideClickHouseClient(cfg)
	require.NoError(t, err)
	assert.Nil(t, ch)

	stores := ProvideStores(ch, applogger.Nop())
	assert.IsType(t, &internalrepo.MemoryStore{}, stores.Prices)
	assert.Same(t, stores.Prices, stores.News)

	producer, err := ProvideKafkaProducer(cfg)
	require.NoError(t, err)
	assert.Nil(t, producer)
	assert.IsType(t, &internalrepo.LogAlertPublisher{}, ProvideAlertPublisher(cfg, producer, applogger.Nop()))

	collector, err := ProvideLogCollector(cfg, producer)
	require.NoError(t, err)
	assert.Nil(t, collector)
	l, err := ProvideLogger(cfg, collector)
	require.NoError(t, err)
	assert.NotNil(t, l)

	consumer, err := ProvideKafkaConsumer(cfg, applogger.Nop())
	require.NoError(t, err)
	assert.Nil(t, consumer)

	assert.IsType(t, &icache.TTLCache{}, ProvideResponseCache(cfg))

	handlers := ProvideKafkaHandlers(cfg, stores, repository.NopMetrics{})
	require.Len(t, handlers, 2)
	assert.Equal(t, cfg.Kafka.PricesTopic, handlers[0].Topic())
	assert.Equal(t, cfg.Kafka.NewsTopic, handlers[1].Topic())
}
