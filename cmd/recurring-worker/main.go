package main

import (
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"cashflow/internal/cli"
	"cashflow/internal/log"
	"cashflow/internal/services"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentRecurring)

	store := cli.OpenStore(cfg, logger)
	defer store.Close()

	// Materialized transactions still land in the store without a broker,
	// they just skip the event feed.
	var publisher services.EventPublisher
	if client := cli.OptionalAMQP(cfg, logger); client != nil {
		defer client.Close()
		publisher = client
	}

	access := services.NewAccess(store)
	transactions := services.NewTransactionService(access, publisher, logger, cfg.DefaultPageSize, cfg.MaxPageSize)
	processor := services.NewRecurringProcessor(store, transactions, logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	sweep := func() {
		count, err := processor.ProcessDue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("recurring sweep failed", log.FieldError, err)
			return
		}
		logger.Info("recurring sweep complete", "transactions_created", count)
	}

	// Catch up on anything that came due while the worker was down.
	logger.Info("running initial recurring sweep")
	sweep()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RecurringCronSpec, sweep); err != nil {
		logger.Error("invalid cron spec", "spec", cfg.RecurringCronSpec, log.FieldError, err)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("recurring worker started", "cron", cfg.RecurringCronSpec)

	<-ctx.Done()
	logger.Info("shutting down recurring worker")

	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("shutdown timeout reached, abandoning in-flight sweep")
	}
	logger.Info("recurring worker stopped")
}
