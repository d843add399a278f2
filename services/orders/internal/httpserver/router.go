package httpserver

import (
	"net/http"

	echo "github.com/labstack/echo/v4"

	"github.com/vyatkin0/micro-services/pkg/middleware/auth"
)

type Deps struct {
	Orders *OrdersHTTP
	Auth   *auth.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	orders := e.Group("/orders", d.Auth.RequireAccess)
	orders.POST("/List", d.Orders.List)
	orders.POST("/Get", d.Orders.Get)
	orders.POST("/Create", d.Orders.Create)
	orders.POST("/Update", d.Orders.Update)
	orders.POST("/Delete", d.Orders.Delete)
}
