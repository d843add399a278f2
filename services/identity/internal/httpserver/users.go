package httpserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echo "github.com/labstack/echo/v4"

	"github.com/vyatkin0/micro-services/pkg/identityclient"
	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/middleware/auth"
	"github.com/vyatkin0/micro-services/pkg/rpcstatus"
	"github.com/vyatkin0/micro-services/services/identity/internal/service"
)

type UsersHTTP struct {
	Svc      *service.UsersService
	Validate *validator.Validate
}

func (h *UsersHTTP) AttachUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_attach")

	var req identityclient.AppUserID
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("attach_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.AttachUser(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		l.Warn("attach_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UsersHTTP) DetachUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_detach")

	var req identityclient.AppUserID
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("detach_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.DetachUser(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		l.Warn("detach_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UsersHTTP) FindUserByName(c echo.Context) error {
	ctx := c.Request().Context()

	var req identityclient.FindUserByNameRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.FindUserByName(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
