package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	redispkg "github.com/leadpilot/leadpilot-backend/internal/pkg/redis"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/response"
	"go.uber.org/zap"
)

// slidingWindowScript counts requests inside the window and admits the
// call only while the count stays under the limit
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count < limit then
    redis.call('ZADD', key, now, now .. '-' .. math.random())
    redis.call('EXPIRE', key, math.ceil(window / 1000))
    return 1
end
return 0
`

// RateLimiter enforces a sliding-window request limit backed by Redis
type RateLimiter struct {
	client *redispkg.Client
	logger *zap.Logger

	prefix string
	limit  int
	window time.Duration
	keyFn  func(c *gin.Context) string
}

func NewRateLimiter(client *redispkg.Client, logger *zap.Logger, prefix string, limit int, window time.Duration, keyFn func(c *gin.Context) string) *RateLimiter {
	return &RateLimiter{
		client: client,
		logger: logger,
		prefix: prefix,
		limit:  limit,
		window: window,
		keyFn:  keyFn,
	}
}

// Middleware returns the gin handler enforcing the limit. When Redis is
// unavailable the request is admitted; availability wins over strictness
// here.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", rl.prefix, rl.keyFn(c))
		now := time.Now().UnixMilli()

		result, err := rl.client.Eval(c.Request.Context(), slidingWindowScript,
			[]string{key}, now, rl.window.Milliseconds(), rl.limit)
		if err != nil {
			rl.logger.Warn("rate limiter unavailable, admitting request",
				zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		allowed, ok := result.(int64)
		if !ok || allowed != 1 {
			rl.logger.Info("rate limit exceeded",
				zap.String("key", key),
				zap.Int("limit", rl.limit),
				zap.Duration("window", rl.window))
			response.Error(c, 429, "too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

func userIDKey(c *gin.Context) string {
	if id, ok := GetUserID(c); ok {
		return id
	}
	return c.ClientIP()
}

// LoginRateLimiter limits login attempts per client IP
func LoginRateLimiter(client *redispkg.Client, logger *zap.Logger) gin.HandlerFunc {
	return NewRateLimiter(client, logger, "login", 5, 5*time.Minute, clientIPKey).Middleware()
}

// RegisterRateLimiter limits registrations per client IP
func RegisterRateLimiter(client *redispkg.Client, logger *zap.Logger) gin.HandlerFunc {
	return NewRateLimiter(client, logger, "register", 3, time.Hour, clientIPKey).Middleware()
}

// APIRateLimiter limits authenticated API calls per user
func APIRateLimiter(client *redispkg.Client, logger *zap.Logger) gin.HandlerFunc {
	return NewRateLimiter(client, logger, "api", 100, time.Minute, userIDKey).Middleware()
}
