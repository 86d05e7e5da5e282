package attendance

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the attendance endpoints. rdb backs the
// Idempotency-Key replay cache on mark; nil disables it.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	attendance := r.Group("/attendance")
	{
		attendance.POST("/mark",
			middleware.RateLimitByIP(2, 10),
			middleware.Idempotency(rdb),
			handler.Mark,
		)

		attendance.GET("/date/:date",
			middleware.RateLimitByIP(3, 10),
			handler.GetByDate,
		)

		attendance.GET("/employee/:employeeId",
			middleware.RateLimitByIP(3, 10),
			handler.GetEmployeeAttendance,
		)

		attendance.GET("/report/:employeeId/:year/:month",
			middleware.RateLimitByIP(1, 5),
			handler.GetMonthlyReport,
		)

		attendance.GET("/dashboard",
			middleware.RateLimitByIP(3, 10),
			handler.GetDashboardStats,
		)
	}
}
