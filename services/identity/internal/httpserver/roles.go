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

type RolesHTTP struct {
	Svc      *service.RolesService
	Validate *validator.Validate
}

func (h *RolesHTTP) RolesList(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.Svc.RolesList(ctx, auth.ClaimsFrom(c))
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RolesHTTP) PrivilegesList(c echo.Context) error {
	res, err := h.Svc.PrivilegesList(c.Request().Context())
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RolesHTTP) AssignUserRoles(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles_assign")

	var req identityclient.UserRoleRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("assign_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.AssignUserRoles(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		l.Warn("assign_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RolesHTTP) RemoveUserRoles(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles_remove_grants")

	var req identityclient.UserRoleRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("remove_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.RemoveUserRoles(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		l.Warn("remove_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RolesHTTP) GetUserRoles(c echo.Context) error {
	ctx := c.Request().Context()

	var req identityclient.UserRolesRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.GetUserRoles(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RolesHTTP) GetUsersRoles(c echo.Context) error {
	ctx := c.Request().Context()

	var req identityclient.UsersRolesRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.GetUsersRoles(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RolesHTTP) GetRoleUsers(c echo.Context) error {
	ctx := c.Request().Context()

	var req identityclient.RoleRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.GetRoleUsers(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RolesHTTP) RoleCreate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles_create")

	var req identityclient.RoleCreateRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("create_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.RoleCreate(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		l.Warn("create_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}

	l.Info("role_created", "role_id", res.ID)
	return c.JSON(http.StatusOK, res)
}

func (h *RolesHTTP) RoleEdit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles_edit")

	var req identityclient.Role
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("edit_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.RoleEdit(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		l.Warn("edit_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RolesHTTP) RoleRemove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles_delete")

	var req identityclient.RoleRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("delete_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.RoleRemove(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		l.Warn("delete_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}

	l.Info("role_deleted", "role_id", req.RoleID)
	return c.JSON(http.StatusOK, res)
}

func (h *RolesHTTP) RoleInfo(c echo.Context) error {
	ctx := c.Request().Context()

	var req identityclient.RoleRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.RoleInfo(ctx, auth.ClaimsFrom(c), &req)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
