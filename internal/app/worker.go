package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"go-attendance/internal/config"
	"go-attendance/internal/messaging/kafka/producer"
	"go-attendance/internal/shared/connection"

	"go.uber.org/zap"
)

const outboxPollInterval = 3 * time.Second

// RunWorker publishes outbox events until SIGINT or SIGTERM.
func RunWorker(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	if cfg.StorageDriver != config.StorageDriverPostgres {
		return errors.New("outbox worker requires STORAGE_DRIVER=postgres")
	}
	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	stores, err := OpenStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
	if err != nil {
		return err
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, stores.Outbox, writer, log, outboxPollInterval)

	log.Info("worker shutting down")
	return nil
}
