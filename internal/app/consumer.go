package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go-attendance/internal/config"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka/consumer"
	"go-attendance/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const punchConsumerGroup = "go-attendance-punch"

// RunConsumer marks attendance from device punches until SIGINT or
// SIGTERM.
func RunConsumer(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	stores, err := OpenStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		if rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries); err != nil {
			return err
		}
		defer rdb.Close()
	}

	svcs, err := NewServices(cfg, stores, rdb, logger)
	if err != nil {
		return err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.AttendancePunchTopic,
		GroupID:        punchConsumerGroup,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeAttendancePunches(ctx, reader, svcs.Attendance, log)

	log.Info("consumer shutting down")
	return nil
}
