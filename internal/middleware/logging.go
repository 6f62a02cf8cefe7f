// Package middleware provides request-scoped Fiber middleware: context
// propagation, access logging, tracing and rate limiting.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"cinemate/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// CorrelationIDHeader carries a caller-supplied correlation id across services.
const CorrelationIDHeader = "X-Correlation-ID"

// ContextMiddleware copies the request id and correlation id into the request
// context so the context-aware logger picks them up in deeper layers.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ctx = context.WithValue(ctx, observability.RequestIDKey, rid)
		}

		cid := c.Get(CorrelationIDHeader)
		if cid == "" {
			cid = observability.GenerateCorrelationID()
		}
		ctx = observability.WithCorrelationID(ctx, cid)
		c.Set(CorrelationIDHeader, cid)

		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger returns a Fiber middleware for logging requests using slog
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		fields := []any{
			slog.Int("status", status),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
			slog.String("user_agent", c.Get("User-Agent")),
		}

		switch {
		case err != nil:
			fields = append(fields, slog.String("error", err.Error()))
			observability.Logger.ErrorContext(c.UserContext(), "request failed", fields...)
		case status >= fiber.StatusInternalServerError:
			observability.Logger.ErrorContext(c.UserContext(), "request processed", fields...)
		default:
			observability.Logger.InfoContext(c.UserContext(), "request processed", fields...)
		}

		return err
	}
}
