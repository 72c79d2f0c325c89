// Package cli consolidates the startup sequence shared by the cashflow
// binaries: cmd/cashflow, cmd/cashflow-worker, and cmd/recurring-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cashflow/internal/amqp"
	"cashflow/internal/backend"
	"cashflow/internal/config"
	"cashflow/internal/log"
	"cashflow/internal/storage"
)

// Bootstrap loads the local .env file, builds the component logger, and
// loads and validates configuration. It exits the process when the
// configuration is invalid.
func Bootstrap(component string) (*config.Config, *log.Logger) {
	_ = godotenv.Load()

	logger := log.Default(component)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenStore opens the configured data backend or exits the process.
// Callers own the returned store and must Close it.
func OpenStore(cfg *config.Config, logger *log.Logger) storage.Store {
	store, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Error("failed to open data store", log.FieldError, err, "backend", cfg.Backend)
		os.Exit(1)
	}
	return store
}

// OptionalAMQP connects to the broker when one is configured. A missing or
// unreachable broker is not fatal; callers run without the event feed.
func OptionalAMQP(cfg *config.Config, logger *log.Logger) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled, transaction events will not be published")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Warn("failed to connect AMQP, continuing without event feed", log.FieldError, err)
		return nil
	}
	logger.Info("AMQP connected",
		log.FieldExchange, cfg.AMQPExchange,
		log.FieldQueue, cfg.AMQPQueue)
	return client
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
