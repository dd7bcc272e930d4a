package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/planejaedu/identity/internal/engine/guard"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/internal/engine/service"
	"github.com/planejaedu/identity/pkg/http/middleware"
)

/**
 * @file: router_invitation.go
 * @description: invitation lifecycle, accept and preview are public
 */

func (rt *Router) invitationRouter(r fiber.Router) {
	inviteGroup := r.Group("/invitations")
	{
		inviteGroup.Post("/", rt.guard(guard.OpInvite), rt.invite)
		inviteGroup.Get("/", rt.guard(guard.OpListInvites), rt.listInvitations)
		inviteGroup.Post("/accept", rt.guard(guard.OpAcceptInvite), rt.acceptInvite)
		inviteGroup.Get("/preview", rt.guard(guard.OpPreviewInvite), rt.previewInvite)
		inviteGroup.Post("/:id/resend", rt.guard(guard.OpResendInvite), rt.resendInvite)
		inviteGroup.Delete("/:id", rt.guard(guard.OpCancelInvite), rt.cancelInvite)
	}
}

type invitationPage struct {
	Items    []*model.InvitationInfo `json:"items"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
}

func (rt *Router) invite(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return withErr(c, err)
	}
	var req model.InviteReq
	if err := parseBody(c, &req); err != nil {
		return withErr(c, err)
	}

	resp, err := rt.Invitations.Invite(c.UserContext(), caller, &req)
	if err != nil {
		return withErr(c, err)
	}

	c.Status(fiber.StatusCreated)
	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) listInvitations(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return withErr(c, err)
	}
	req := &service.ListInvitationsReq{
		TenantId: c.Query("tenantId"),
		Status:   c.Query("status"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 0),
	}

	items, total, err := rt.Invitations.List(c.UserContext(), caller, req)
	if err != nil {
		return withErr(c, err)
	}

	c.Locals(middleware.DETAIL, &invitationPage{
		Items:    items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	return nil
}

func (rt *Router) acceptInvite(c *fiber.Ctx) error {
	var req model.AcceptInviteReq
	if err := parseBody(c, &req); err != nil {
		return withErr(c, err)
	}

	resp, err := rt.Invitations.Accept(c.UserContext(), &req)
	if err != nil {
		return withErr(c, err)
	}

	c.Status(fiber.StatusCreated)
	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) previewInvite(c *fiber.Ctx) error {
	preview, err := rt.Invitations.Preview(c.UserContext(), c.Query("token"))
	if err != nil {
		return withErr(c, err)
	}

	c.Locals(middleware.DETAIL, preview)
	return nil
}

func (rt *Router) resendInvite(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return withErr(c, err)
	}

	resp, err := rt.Invitations.Resend(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return withErr(c, err)
	}

	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) cancelInvite(c *fiber.Ctx) error {
	caller, err := actor(c)
	if err != nil {
		return withErr(c, err)
	}

	if err := rt.Invitations.Cancel(c.UserContext(), caller, c.Params("id")); err != nil {
		return withErr(c, err)
	}

	c.Locals(middleware.OPERATION, "")
	return nil
}
