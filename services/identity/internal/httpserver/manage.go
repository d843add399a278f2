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

type ManageHTTP struct {
	Svc      *service.ManageService
	Validate *validator.Validate
}

func (h *ManageHTTP) Info(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.Svc.Info(ctx, auth.ClaimsFrom(c))
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ManageHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "manage_update")

	var req identityclient.UpdateRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("update_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.Update(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		l.Warn("update_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ManageHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "manage_change_password")

	var req identityclient.ChangePasswordRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("change_password_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.ChangePassword(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		l.Warn("change_password_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}

	l.Info("password_changed")
	return c.JSON(http.StatusOK, res)
}

func (h *ManageHTTP) GetTenants(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.Svc.GetTenants(ctx, auth.ClaimsFrom(c))
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
