package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/planejaedu/identity/pkg/log"
)

const (
	HeaderRequestId = "X-Request-Id"
	LocalRequestId  = "request_id"
)

// RequestMiddleware set request id, and carries it into the user context
// so service logs can be correlated with the access log.
func RequestMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestId := c.Get(HeaderRequestId)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		c.Request().Header.Set(HeaderRequestId, requestId)
		c.Set(HeaderRequestId, requestId)
		c.Locals(LocalRequestId, requestId)
		c.SetUserContext(log.ContextWithRequestId(c.UserContext(), requestId))
		return c.Next()
	}
}
