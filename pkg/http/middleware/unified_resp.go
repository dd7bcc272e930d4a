package middleware

import (
	"github.com/gofiber/fiber/v2"
	httpx "github.com/planejaedu/identity/pkg/http"
)

const (
	// DETAIL 用于设置响应数据，需要返回数据
	// e.g: c.Locals(DETAIL, value)
	DETAIL = "detail"

	// OPERATION 用于新增，修改，删除等，只返回操作结果
	// e.g: c.Locals(OPERATION, "")
	OPERATION = "operation"
)

// UnifiedResponseMiddleware 统一响应中间件
// Error responses are written by the handlers themselves and pass through.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			return nil
		}

		if detail := c.Locals(DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}
		if c.Locals(OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}
		return nil
	}
}
