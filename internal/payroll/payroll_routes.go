package payroll

import (
	"etqan-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	periods := r.Group("/payroll-periods")
	{
		periods.GET("", handler.List)
		periods.GET("/stats", handler.Stats)
		if redisClient != nil {
			periods.POST("/:id/mark-paid", middleware.Idempotency(redisClient), handler.MarkPaid)
		} else {
			periods.POST("/:id/mark-paid", handler.MarkPaid)
		}
	}

	board := r.Group("/payroll-board")
	{
		board.GET("", handler.Board)
		board.PUT("/params", handler.SetBoardParams)
		board.POST("/refresh", handler.RefreshBoard)
	}
}
