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

type AccountsHTTP struct {
	Svc      *service.AccountsService
	Validate *validator.Validate
}

func (h *AccountsHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "accounts_login")

	var req identityclient.LoginRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("login_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.Login(ctx, &req)
	if err != nil {
		l.Warn("login_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}

	l.Info("login_successful")
	return c.JSON(http.StatusOK, res)
}

func (h *AccountsHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "accounts_register")

	var req identityclient.RegisterRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("register_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.Register(ctx, &req)
	if err != nil {
		l.Warn("register_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}

	l.Info("register_successful")
	return c.JSON(http.StatusOK, res)
}

func (h *AccountsHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.Svc.Logout(ctx, auth.ClaimsFrom(c))
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AccountsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.Svc.List(ctx, auth.ClaimsFrom(c))
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
