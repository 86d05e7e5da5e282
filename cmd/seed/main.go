package main

import (
	"context"
	"os"

	"go-attendance/internal/app"
	"go-attendance/internal/config"
	"go-attendance/internal/logging"
	"go-attendance/internal/seed"
	"go-attendance/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		days  int
		reset bool
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Populate the store with demo departments, employees and attendance",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return run(cmd.Context(), cfg, logger, days, reset)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "number of calendar days of attendance to generate")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete existing rows before seeding")
	return cmd
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, days int, reset bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	stores, err := app.OpenStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	if reset {
		if err := stores.Reset(ctx); err != nil {
			return err
		}
		logger.Info("existing data removed")
	}

	// Seeding through a live cache keeps the API's cached lists fresh.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		if rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, 3); err != nil {
			return err
		}
		defer rdb.Close()
	}

	svcs, err := app.NewServices(cfg, stores, rdb, logger)
	if err != nil {
		return err
	}

	_, err = seed.Run(ctx, svcs, seed.Options{Days: days, Location: cfg.Location}, logger)
	if err != nil {
		logger.Error("seed failed", zap.Error(err))
	}
	return err
}
