// services/rate_limit.go
package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/skillside-labs/questly_api/shared"
	log "github.com/sirupsen/logrus"
)

// RateLimitService throttles the tracking endpoints with a fixed redis
// window per user (falling back to client IP for unauthenticated routes).
type RateLimitService struct {
	appContext.DefaultService

	redisSvc *RedisService

	limit  int
	window time.Duration
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.limit = 60
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			svc.limit = parsed
		}
	}
	svc.window = time.Minute

	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Limit returns a middleware enforcing the window for one endpoint group.
func (svc *RateLimitService) Limit(group string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.IP()
		if userID, ok := c.Locals(shared.UserID).(string); ok && userID != "" {
			identifier = userID
		}

		key := fmt.Sprintf("ratelimit:%s:%s", group, identifier)
		ctx := context.Background()

		count, err := svc.redisSvc.Increment(ctx, key)
		if err != nil {
			// Redis being down must not take the API with it
			log.WithError(err).Warn("Rate limit check failed, allowing request")
			return c.Next()
		}

		if count == 1 {
			if err := svc.redisSvc.Expire(ctx, key, svc.window); err != nil {
				log.WithError(err).Warn("Failed to set rate limit window")
			}
		}

		if count > int64(svc.limit) {
			ttl, _ := svc.redisSvc.TTL(ctx, key)
			c.Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", nil)
		}

		return c.Next()
	}
}
