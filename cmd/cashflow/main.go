package main

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"cashflow/internal/cli"
	"cashflow/internal/config"
	apphttp "cashflow/internal/http"
	"cashflow/internal/log"
	"cashflow/internal/services"
	"cashflow/internal/storage"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentApp)

	store := cli.OpenStore(cfg, logger)
	defer store.Close()

	// AMQP is optional; without it the API runs without the event feed.
	var publisher services.EventPublisher
	if client := cli.OptionalAMQP(cfg, logger); client != nil {
		defer client.Close()
		publisher = client
	}

	auth, err := buildAuthenticator(cfg)
	if err != nil {
		logger.Error("failed to load auth tokens", log.FieldError, err)
		os.Exit(1)
	}

	access := services.NewAccess(store)
	server := apphttp.NewServer(apphttp.Config{
		Port:              cfg.Port,
		CORSOrigins:       cfg.CORSOrigins,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, apphttp.Deps{
		Auth:         auth,
		Users:        services.NewUserService(store, logger),
		Categories:   services.NewCategoryService(access, logger),
		Transactions: services.NewTransactionService(access, publisher, logger, cfg.DefaultPageSize, cfg.MaxPageSize),
		Summary:      services.NewSummaryService(access, logger, cfg.SummaryLimit),
		Recurring:    services.NewRecurringService(access, logger),
		Logger:       logger,
		Ready:        readiness(store),
	})

	ctx, stop := cli.SignalContext()
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(ctx)
	})

	logger.Info("cashflow server starting",
		"port", cfg.Port,
		"backend", cfg.Backend)
	if err := g.Wait(); err != nil {
		logger.Error("server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

func buildAuthenticator(cfg *config.Config) (apphttp.Authenticator, error) {
	if cfg.TokensFile == "" {
		return nil, os.ErrNotExist
	}
	return apphttp.LoadStaticTokens(cfg.TokensFile)
}

// readiness probes the store when it supports pinging.
func readiness(store storage.Store) func(ctx context.Context) error {
	pinger, ok := store.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	return pinger.Ping
}
