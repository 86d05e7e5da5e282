package department

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	departments := r.Group("/departments")
	{
		departments.GET("", middleware.RateLimitByIP(5, 20), h.GetAll)
		departments.GET("/:id", middleware.RateLimitByIP(5, 20), h.GetByID)
		departments.POST("", middleware.RateLimitByIP(1, 5), h.Create)
		departments.PUT("/:id", middleware.RateLimitByIP(1, 5), h.Update)
		departments.DELETE("/:id", middleware.RateLimitByIP(0.5, 2), h.Delete)
	}
}
