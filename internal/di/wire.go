//go:build wireinject
// +build wireinject

package di

import (
	"FinSignal/pkg/config"
	"FinSignal/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogCollector,
		ProvideLogger,
		ProvideMetrics,

		// Core
		ProvideAliasTable,
		ProvidePipeline,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideResponseCache,

		// Repositories
		ProvideStores,
		ProvideAlertPublisher,

		// Use cases
		ProvideIntelligenceService,
		ProvideKafkaHandlers,

		// Application server
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
