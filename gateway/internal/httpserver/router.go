package httpserver

import (
	"net/http"

	echo "github.com/labstack/echo/v4"
)

type Deps struct {
	RPC *RPCHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/rpc", d.RPC.Call)
}
