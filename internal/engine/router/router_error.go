package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/planejaedu/identity/internal/engine/errs"
	"github.com/planejaedu/identity/internal/engine/guard"
	"github.com/planejaedu/identity/internal/engine/model"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/log"
)

type errMapping struct {
	status int
	rep    *http.Response
}

var errMappings = map[error]errMapping{
	errs.ErrUnauthenticated: {fiber.StatusUnauthorized, http.Unauthorized},
	errs.ErrForbidden:       {fiber.StatusForbidden, http.Forbidden},
	errs.ErrNotFound:        {fiber.StatusNotFound, http.NotFound},
	errs.ErrConflict:        {fiber.StatusConflict, http.Conflict},
	errs.ErrInvalidState:    {fiber.StatusUnprocessableEntity, http.InvalidState},
	errs.ErrTooManyRequests: {fiber.StatusTooManyRequests, http.TooManyRequests},
	errs.ErrInvalidInput:    {fiber.StatusBadRequest, http.BadRequest},
}

// withErr writes err with the status of its kind. Internal errors are logged
// and answered with a generic body.
func withErr(c *fiber.Ctx, err error) error {
	mapping, ok := errMappings[errs.Kind(err)]
	if !ok {
		log.WithContext(c.UserContext()).Errorw("request failed", "path", c.Path(), "error", err)
		return http.WithRepErrStatus(c, fiber.StatusInternalServerError, http.InternalError, "")
	}
	if mapping.status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return http.WithRepErrStatus(c, mapping.status, mapping.rep, errs.Public(err))
}

// actor returns the caller resolved by the guard.
func actor(c *fiber.Ctx) (model.Actor, error) {
	a, ok := guard.ActorFrom(c.UserContext())
	if !ok {
		return model.Actor{}, errs.ErrUnauthenticated
	}
	return a, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errors.Wrap(errs.ErrInvalidInput, "malformed request body")
	}
	return nil
}
