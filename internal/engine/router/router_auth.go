package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/planejaedu/identity/internal/engine/guard"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/pkg/http/middleware"
)

func (rt *Router) authRouter(r fiber.Router) {
	authGroup := r.Group("/auth")
	{
		authGroup.Post("/login", rt.guard(guard.OpLogin), rt.login)
		authGroup.Post("/refresh", rt.guard(guard.OpRefresh), rt.refresh)
		authGroup.Post("/logout", rt.guard(guard.OpLogout), rt.logout)
		authGroup.Get("/me", rt.guard(guard.OpMe), rt.me)
	}
}

func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := parseBody(c, &req); err != nil {
		return withErr(c, err)
	}

	resp, err := rt.Auth.Login(c.UserContext(), &req)
	if err != nil {
		return withErr(c, err)
	}

	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	var req model.RefreshReq
	if err := parseBody(c, &req); err != nil {
		return withErr(c, err)
	}

	resp, err := rt.Auth.Refresh(c.UserContext(), &req)
	if err != nil {
		return withErr(c, err)
	}

	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) logout(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return withErr(c, err)
	}
	var req model.RefreshReq
	if err := parseBody(c, &req); err != nil {
		return withErr(c, err)
	}

	if err := rt.Auth.Logout(c.UserContext(), caller, &req); err != nil {
		return withErr(c, err)
	}

	c.Locals(middleware.OPERATION, "")
	return nil
}

func (rt *Router) me(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return withErr(c, err)
	}

	info, err := rt.Auth.Me(c.UserContext(), caller)
	if err != nil {
		return withErr(c, err)
	}

	c.Locals(middleware.DETAIL, info)
	return nil
}
