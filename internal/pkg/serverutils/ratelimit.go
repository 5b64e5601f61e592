package serverutils

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware enforces a fixed-window request ceiling per caller,
// keyed by the authenticated user when present and the client IP
// otherwise. Redis being unreachable fails open: answering slowly beats
// not answering at all.
func RateLimitMiddleware(rdb *redis.Client, limit int, window time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		caller := ctx.IP()
		if uid, ok := ctx.Locals("user_id").(string); ok && uid != "" {
			caller = uid
		}
		key := fmt.Sprintf("ratelimit:chat:%s", caller)

		count, err := rdb.Incr(ctx.Context(), key).Result()
		if err != nil {
			return ctx.Next()
		}
		if count == 1 {
			rdb.Expire(ctx.Context(), key, window)
		}

		if count > int64(limit) {
			ttl, _ := rdb.TTL(ctx.Context(), key).Result()
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":     false,
				"message":     "too many requests, slow down",
				"retry_after": int(ttl.Seconds()),
			})
		}

		return ctx.Next()
	}
}
