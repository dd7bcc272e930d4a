package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const LocalClientIP = "ip"

// RealIPMiddleware stores the client address resolved by fiber. Forwarded
// headers count only when the app trusts the peer (see http.Http.ApplyProxy).
func RealIPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalClientIP, c.IP())
		return c.Next()
	}
}

// ClientIP returns the address stored by RealIPMiddleware.
func ClientIP(c *fiber.Ctx) string {
	if ip, ok := c.Locals(LocalClientIP).(string); ok && ip != "" {
		return ip
	}
	return c.IP()
}
