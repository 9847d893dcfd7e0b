package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"etqan-payroll/internal/shared/contextutil"
	"etqan-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader  = "Idempotency-Key"
	idempotencyLockTTL = 30 * time.Second
)

// Idempotency replays the stored result of a POST that carried the same
// Idempotency-Key and rejects a duplicate that arrives while the first is
// still running. Handlers release the lock and store the result using the
// idempotency_lock_key and idempotency_cache_key context values.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := contextutil.GetLogger(ctx, zap.L()).With(zap.String("idempotency_key", idempKey))

		cacheKey := fmt.Sprintf("idemp:%s:%s", c.Request.URL.Path, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached any
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				log.Info("replaying idempotent response")
				response.Success(c, http.StatusOK, cached, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock unavailable, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "request with this idempotency key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
