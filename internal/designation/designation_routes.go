package designation

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	designations := r.Group("/designations")
	{
		designations.GET("", middleware.RateLimitByIP(5, 20), h.GetAll)
		designations.GET("/:id", middleware.RateLimitByIP(5, 20), h.GetByID)
		designations.POST("", middleware.RateLimitByIP(1, 5), h.Create)
		designations.PUT("/:id", middleware.RateLimitByIP(1, 5), h.Update)
		designations.DELETE("/:id", middleware.RateLimitByIP(0.5, 2), h.Delete)
	}
}
