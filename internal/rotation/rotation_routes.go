package rotation

import (
	"etqan-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	rotation := r.Group("/payroll-rotation")
	{
		rotation.GET("/status", handler.Status)
		rotation.GET("/runs", handler.ListRuns)
		rotation.GET("/runs/:id", handler.GetRun)
		rotation.POST("/runs", middleware.RateLimitByIP(rate.Limit(0.2), 1), handler.Trigger)
	}
}
