package main

import (
	"go-attendance/internal/app"
	"go-attendance/internal/attendance"
	"go-attendance/internal/config"
	"go-attendance/internal/logging"
	"go-attendance/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := apperror.Init(attendance.RegisterValidators); err != nil {
		logger.Fatal("register validators failed", zap.Error(err))
	}

	if err := app.RunConsumer(cfg, logger); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
