package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/planejaedu/identity/internal/engine/guard"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/pkg/http/middleware"
)

func (rt *Router) accountRouter(r fiber.Router) {
	accountGroup := r.Group("/accounts")
	{
		accountGroup.Patch("/:id", rt.guard(guard.OpUpdateAccount), rt.updateAccount)
		accountGroup.Post("/:id/deactivate", rt.guard(guard.OpDeactivateAccount), rt.deactivateAccount)
	}
}

func (rt *Router) updateAccount(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return withErr(c, err)
	}
	var req model.UpdateAccountReq
	if err := parseBody(c, &req); err != nil {
		return withErr(c, err)
	}

	info, err := rt.Accounts.UpdateAccount(c.UserContext(), caller, c.Params("id"), &req)
	if err != nil {
		return withErr(c, err)
	}

	c.Locals(middleware.DETAIL, info)
	return nil
}

func (rt *Router) deactivateAccount(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return withErr(c, err)
	}

	info, err := rt.Accounts.DeactivateAccount(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return withErr(c, err)
	}

	c.Locals(middleware.DETAIL, info)
	return nil
}
