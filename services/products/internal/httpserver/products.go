package httpserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echo "github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/middleware/auth"
	"github.com/vyatkin0/micro-services/pkg/productsclient"
	"github.com/vyatkin0/micro-services/pkg/rpcstatus"
	"github.com/vyatkin0/micro-services/services/products/internal/service"
)

type ProductsHTTP struct {
	Svc      *service.ProductService
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

// requireRole rejects callers whose token carries neither role nor an
// Admin grant.
func requireRole(c echo.Context, role string) error {
	_, err := auth.AuthorizedIDs(c, role)
	return err
}

func (h *ProductsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	if err := requireRole(c, "GetProduct"); err != nil {
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.List(ctx)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	if err := requireRole(c, "GetProduct"); err != nil {
		return rpcstatus.JSON(c, err)
	}

	var req productsclient.ProductID
	if err := bindBody(c, h.Validate, &req); err != nil {
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.Get(ctx, req.ID)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductsHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products_create")

	if err := requireRole(c, "CreateProduct"); err != nil {
		l.Warn("create_forbidden", "status", 403, "error", err)
		return rpcstatus.JSON(c, err)
	}

	var req productsclient.CreateRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("create_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.Create(ctx, &req)
	if err != nil {
		l.Warn("create_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductsHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products_update")

	if err := requireRole(c, "UpdateProduct"); err != nil {
		l.Warn("update_forbidden", "status", 403, "error", err)
		return rpcstatus.JSON(c, err)
	}

	var req productsclient.UpdateRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("update_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.Update(ctx, &req)
	if err != nil {
		l.Warn("update_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductsHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products_delete")

	if err := requireRole(c, "DeleteProduct"); err != nil {
		l.Warn("delete_forbidden", "status", 403, "error", err)
		return rpcstatus.JSON(c, err)
	}

	var req productsclient.ProductID
	if err := bindBody(c, h.Validate, &req); err != nil {
		l.Warn("delete_rejected", "status", 400, "error", err)
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.Delete(ctx, req.ID)
	if err != nil {
		l.Warn("delete_failed", "status", rpcstatus.HTTPStatus(rpcstatus.Code(err)), "error", err)
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductsHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()

	if err := requireRole(c, "GetProduct"); err != nil {
		return rpcstatus.JSON(c, err)
	}

	var req productsclient.SearchRequest
	if err := bindBody(c, h.Validate, &req); err != nil {
		return rpcstatus.JSON(c, err)
	}

	res, err := h.Svc.Search(ctx, &req)
	if err != nil {
		return rpcstatus.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
