package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"connect_four/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and the limiters fall back to the in-process SimpleRateLimit.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process rate limiting", "addr", addr, "error", err)
		_ = client.Close()
		return
	}
	redisClient = client
}

// RedisEnabled reports whether the Redis limiter is active.
func RedisEnabled() bool { return redisClient != nil }

// RedisRateLimit implements a simple fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		if !allow(c, key, maxRequests, window, c.FullPath()) {
			abort(c, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

// hit counts one request on key in the current window.
func hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		redisClient.Expire(ctx, key, window)
	}
	return val, nil
}

// allow counts one hit on key and reports whether it is within limit.
// Redis errors fail open.
func allow(c *gin.Context, key string, limit int, window time.Duration, endpoint string) bool {
	ctx := c.Request.Context()

	val, err := hit(ctx, key, window)
	if err != nil {
		c.Header("X-RateLimit-Error", "redis-error")
		logger.WithContext(ctx).Warn("rate limiter redis error", "key", key, "error", err)
		return true
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(limit)-val), 10))

	if val > int64(limit) {
		RLBlocked.WithLabelValues(endpoint).Inc()
		return false
	}
	RLRequests.WithLabelValues(endpoint).Inc()
	return true
}

// PingRedis checks the limiter's Redis connection.
func PingRedis(ctx context.Context) error {
	if redisClient == nil {
		return redis.ErrClosed
	}
	return redisClient.Ping(ctx).Err()
}
