package httpserver

import (
	"net/http"
	"slices"

	"github.com/go-playground/validator/v10"
	echo "github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/middleware/auth"
	"github.com/vyatkin0/micro-services/pkg/ordersclient"
	"github.com/vyatkin0/micro-services/pkg/rpcstatus"
	"github.com/vyatkin0/micro-services/services/orders/internal/service"
)

type OrdersHTTP struct {
	Svc      *service.OrderService
	Validate *validator.Validate
}

func bindBody(c echo.Context, v *validator.Validate, req any) error {
	if err := c.Bind(req); err != nil {
		return status.Error(codes.InvalidArgument, "Invalid request body")
	}
	if err := v.Struct(req); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func (h *OrdersHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	ids, err := auth.AuthorizedIDs(c, "GetOrder")
	if err != nil {
		return rpcstatus.JSON(c, err)
	}

	var req ordersclient.ListRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.List(ctx, ids, &req)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *OrdersHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	ids, err := auth.AuthorizedIDs(c, "GetOrder")
	if err != nil {
		return rpcstatus.JSON(c, err)
	}

	var req ordersclient.OrderID
	if err := bindBody(c, h.Validate, &req); err != nil {
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.Get(ctx, ids, req.ID)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *OrdersHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders_create")

	ids, err := auth.AuthorizedIDs(c, "CreateOrder")
	if err != nil {
		l.Warn("create_forbidden", "status", 403, "error", err)
		return rpcstatus.JSON(c, err)
	}

	var req ordersclient.CreateRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("create_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	owner := ids[0]
	if claims := auth.ClaimsFrom(c); claims != nil {
		if self, err := claims.AccountID(); err == nil && slices.Contains(ids, self) {
			owner = self
		}
	}
	if req.User != nil {
		if !slices.Contains(ids, *req.User) {
			l.Warn("create_forbidden", "status", 403, "user_id", *req.User)
			return rpcstatus.JSON(c, status.Error(codes.PermissionDenied, "Unauthorized"))
		}
		owner = *req.User
	}

	res, err := h.Svc.Create(ctx, owner, &req, c.Request().Header)
	if err != nil {
		l.Warn("create_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *OrdersHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders_update")

	ids, err := auth.AuthorizedIDs(c, "UpdateOrder")
	if err != nil {
		l.Warn("update_forbidden", "status", 403, "error", err)
		return rpcstatus.JSON(c, err)
	}

	var req ordersclient.UpdateRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("update_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	if req.User != nil && !slices.Contains(ids, *req.User) {
		l.Warn("update_forbidden", "status", 403, "user_id", *req.User)
		return rpcstatus.JSON(c, status.Error(codes.PermissionDenied, "Unauthorized"))
	}

	res, err := h.Svc.Update(ctx, ids, &req, c.Request().Header)
	if err != nil {
		l.Warn("update_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *OrdersHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders_delete")

	ids, err := auth.AuthorizedIDs(c, "DeleteOrder")
	if err != nil {
		l.Warn("delete_forbidden", "status", 403, "error", err)
		return rpcstatus.JSON(c, err)
	}

	var req ordersclient.OrderID
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("delete_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.Delete(ctx, ids, req.ID)
	if err != nil {
		l.Warn("delete_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
