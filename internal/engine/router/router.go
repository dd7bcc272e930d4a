// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/planejaedu/identity/internal/engine/guard"
	"github.com/planejaedu/identity/internal/engine/service"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/http/middleware"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/planejaedu/identity/pkg/version"
)

/**
 * @file: router.go
 * @description: identity api router, every operation passes through the guard pipeline
 */

type Router struct {
	Http        *http.Http
	Pipeline    *guard.Pipeline
	Auth        *service.AuthService
	Invitations *service.InvitationService
	Accounts    *service.AccountService
}

func NewRouter(
	httpConf *http.Http,
	pipeline *guard.Pipeline,
	auth *service.AuthService,
	invitations *service.InvitationService,
	accounts *service.AccountService,
) *Router {
	return &Router{
		Http:        httpConf,
		Pipeline:    pipeline,
		Auth:        auth,
		Invitations: invitations,
		Accounts:    accounts,
	}
}

func (rt *Router) Router() *fiber.App {
	cfg := fiber.Config{
		AppName:               "Identity",
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(rt.Http.IdleTimeout) * time.Second,
		BodyLimit:             rt.Http.BodyLimit,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
	}
	rt.Http.ApplyProxy(&cfg)
	app := fiber.New(cfg)

	app.Use(
		middleware.RequestMiddleware(),
		middleware.TraceMiddleware(),
		middleware.RealIPMiddleware(),
		middleware.ExceptionMiddleware,
		http.AccessLogFormat(rt.Http, log.GetLogger()),
		middleware.UnifiedResponseMiddleware(),
	)

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 版本信息
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	{
		rt.authRouter(api)
		rt.invitationRouter(api)
		rt.accountRouter(api)
	}

	// 找不到路径时的处理 - 必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return http.WithRepErrStatus(c, fiber.StatusNotFound, http.PathNotFound, "")
	})

	return app
}

// guard runs the request pipeline for op and exposes the resolved caller
// through the user context.
func (rt *Router) guard(op string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, err := rt.Pipeline.Run(c.UserContext(), &guard.Request{
			Operation:     op,
			Authorization: c.Get(fiber.HeaderAuthorization),
			ClientIP:      middleware.ClientIP(c),
		})
		if err != nil {
			return withErr(c, err)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
