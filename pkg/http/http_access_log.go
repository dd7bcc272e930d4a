package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/planejaedu/identity/pkg/trace"
	"go.uber.org/zap"
)

// AccessLogFormat logs one line per request. Bodies are never logged since
// they carry passwords and tokens.
func AccessLogFormat(cfg *Http, log *zap.SugaredLogger) fiber.Handler {
	excludedPaths := map[string]bool{
		"/health": true,
	}

	return func(c *fiber.Ctx) error {
		if !cfg.AccessLog || excludedPaths[c.Path()] {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		log.Infow("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"ip", c.IP(),
			"requestId", c.Locals("request_id"),
			"traceId", trace.TraceId(c.UserContext()),
			"user_agent", c.Get("User-Agent"),
			"latency", latency.String(),
		)

		return err
	}
}
