package main

import (
	"os"

	"cashflow/internal/amqp"
	"cashflow/internal/cli"
	"cashflow/internal/log"
	"cashflow/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentWorker)

	// The archive worker exists to drain the event queue, so unlike the API
	// it refuses to start without a broker.
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the archive worker")
		os.Exit(1)
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("failed to connect AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	archive, err := worker.NewArchiveWorker(cfg.ArchiveDir, logger)
	if err != nil {
		logger.Error("failed to prepare archive directory", log.FieldError, err, "dir", cfg.ArchiveDir)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	logger.Info("archive worker started",
		log.FieldQueue, cfg.AMQPQueue,
		"archive_dir", cfg.ArchiveDir)

	if err := client.ConsumeTransactionEvents(ctx, archive.HandleEvent); err != nil && ctx.Err() == nil {
		logger.Error("consumer stopped unexpectedly", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("archive worker stopped")
}
