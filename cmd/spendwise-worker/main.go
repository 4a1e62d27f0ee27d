package main

import (
	"context"
	"os"
	"time"

	"github.com/favianharya/SpendWise/internal/amqp"
	"github.com/favianharya/SpendWise/internal/cli"
	"github.com/favianharya/SpendWise/internal/log"
	"github.com/favianharya/SpendWise/internal/sheets"
	sheetsgoogle "github.com/favianharya/SpendWise/internal/sheets/google"
	sheetsmemory "github.com/favianharya/SpendWise/internal/sheets/memory"
	"github.com/favianharya/SpendWise/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting sheet sync worker")

	cfg := cli.LoadAndValidateConfig(logger)
	store, cleanup := cli.InitStore(logger, cfg)
	defer cleanup()

	ctx := cli.GracefulShutdown(logger, 10*time.Second, nil)

	sheetWriter := newSheetWriter(ctx, logger)
	syncWorker := worker.NewSyncWorker(store, sheetWriter)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	go func() {
		if err := amqpClient.ConsumeExpenseLogged(ctx, func(msg *amqp.ExpenseLoggedMessage) error {
			return syncWorker.HandleLoggedMessage(ctx, msg)
		}); err != nil {
			logger.Error("Consumer stopped", log.FieldError, err)
		}
	}()

	logger.Info("Worker ready, waiting for expense messages",
		"queue", cfg.AMQPQueue)
	<-ctx.Done()
	logger.Info("Worker shut down")
}

// newSheetWriter prefers the Google Sheets sink and falls back to the
// in-memory one when no spreadsheet is configured, so the worker can run
// locally without credentials.
func newSheetWriter(ctx context.Context, logger *log.Logger) sheets.ExpenseWriter {
	if os.Getenv("GOOGLE_SPREADSHEET_ID") == "" {
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, using in-memory sheet store")
		return sheetsmemory.New()
	}
	client, err := sheetsgoogle.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to init Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	return client
}
