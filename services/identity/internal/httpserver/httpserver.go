package httpserver

import (
	"github.com/go-playground/validator/v10"
	echo "github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// bindBody decodes and validates a request body. Both failures surface
// as InvalidArgument so callers get a 400 envelope.
func bindBody(c echo.Context, v *validator.Validate, req any) error {
	if err := c.Bind(req); err != nil {
		return status.Error(codes.InvalidArgument, "Invalid request body")
	}
	if err := v.Struct(req); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}
