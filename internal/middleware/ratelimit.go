package middleware

import (
	"context"
	"errors"
	"strconv"
	"time"

	"cinemate/internal/models"
	"cinemate/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when Redis cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503.
	FailClosed
)

// ErrNoLimiterStore is returned when no Redis client is configured.
var ErrNoLimiterStore = errors.New("rate limit store not configured")

// Quota is the state of one fixed window after counting a hit.
type Quota struct {
	Limit     int
	Remaining int
	Reset     time.Duration
}

// Allowed reports whether the counted hit fits in the window.
func (q Quota) Allowed() bool {
	return q.Remaining >= 0
}

// CheckRateLimit counts one hit for id against resource in a fixed window.
// The counter key expires with the window that created it.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (Quota, error) {
	if rdb == nil {
		return Quota{}, ErrNoLimiterStore
	}

	key := "rl:" + resource + ":" + id
	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return Quota{}, err
	}

	reset := ttl.Val()
	if reset < 0 {
		reset = window
	}
	return Quota{
		Limit:     limit,
		Remaining: limit - int(incr.Val()),
		Reset:     reset,
	}, nil
}

// RateLimit limits each client IP to limit requests per window and lets
// requests through when Redis is unavailable. A non-positive limit disables it.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit FailPolicy. Requests
// sharing a name share one counter; without a name each path counts separately.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limit <= 0 {
			return c.Next()
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		quota, err := CheckRateLimit(c.UserContext(), rdb, resource, "ip:"+c.IP(), limit, window)
		if err != nil {
			if policy == FailOpen {
				return c.Next()
			}
			observability.Logger.WarnContext(c.UserContext(), "rate limit store unavailable, rejecting",
				"resource", resource,
				"error", err,
			)
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
				Error: "rate limit unavailable",
			})
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(quota.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(max(quota.Remaining, 0)))

		if !quota.Allowed() {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(quota.Reset.Round(time.Second)/time.Second)))
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "rate limit exceeded",
				Code:  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
