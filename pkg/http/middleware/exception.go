package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/log"
)

// ExceptionMiddleware 异常中间件
// 捕获 panic 错误，返回 500 状态码，不向客户端暴露堆栈
func ExceptionMiddleware(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic recovered",
				"path", c.Path(),
				"requestId", c.Locals(LocalRequestId),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = http.WithRepErrStatus(c, fiber.StatusInternalServerError, http.InternalError, "")
		}
	}()

	return c.Next()
}
