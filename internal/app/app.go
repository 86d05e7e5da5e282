package app

import (
	"net/http"

	"go-attendance/internal/attendance"
	"go-attendance/internal/config"
	"go-attendance/internal/department"
	"go-attendance/internal/designation"
	"go-attendance/internal/employee"
	"go-attendance/internal/middleware"
	"go-attendance/internal/shared/connection"
	"go-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects the configured infrastructure and mounts every module
// on router. The returned cleanup releases the connections.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) (func(), error) {
	stores, err := OpenStores(cfg)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
		if err != nil {
			_ = stores.Close()
			return nil, err
		}
	} else {
		logger.Warn("REDIS_ADDR not set, caching and idempotency disabled")
	}

	svcs, err := NewServices(cfg, stores, rdb, logger)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}

	Mount(router, svcs, rdb, logger)

	return func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = stores.Close()
	}, nil
}

// Mount installs the request middleware and every module route.
func Mount(router *gin.Engine, svcs *Services, rdb *redis.Client, logger *zap.Logger) {
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})

	api := router.Group("/api/v1")
	{
		department.RegisterRoutes(api, department.NewHandler(svcs.Departments, logger))
		designation.RegisterRoutes(api, designation.NewHandler(svcs.Designations, logger))
		employee.RegisterRoutes(api, employee.NewHandler(svcs.Employees, logger))
		attendance.RegisterRoutes(api, attendance.NewHandler(svcs.Attendance, logger), rdb)
	}
}
