package httpserver

import (
	"net/http"

	echo "github.com/labstack/echo/v4"

	"github.com/vyatkin0/micro-services/pkg/middleware/auth"
)

type Deps struct {
	Products *ProductsHTTP
	Auth     *auth.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	products := e.Group("/products", d.Auth.RequireAccess)
	products.POST("/List", d.Products.List)
	products.POST("/Get", d.Products.Get)
	products.POST("/Create", d.Products.Create)
	products.POST("/Update", d.Products.Update)
	products.POST("/Delete", d.Products.Delete)
	products.POST("/Search", d.Products.Search)
}
