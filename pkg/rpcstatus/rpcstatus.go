// Package rpcstatus carries domain errors between services as
// grpc status codes over plain HTTP/JSON.
package rpcstatus

import (
	"net/http"

	echo "github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Envelope is the error body every backend returns on failure.
type Envelope struct {
	Code    uint32 `json:"code"`
	Message string `json:"message"`
}

func HTTPStatus(c codes.Code) int {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ToEnvelope maps any error to its wire form. Errors that are not
// status errors are reported as Internal.
func ToEnvelope(err error) (int, Envelope) {
	st, ok := status.FromError(err)
	if !ok {
		st = status.New(codes.Internal, err.Error())
	}
	return HTTPStatus(st.Code()), Envelope{Code: uint32(st.Code()), Message: st.Message()}
}

// FromEnvelope restores the status error a backend sent.
func FromEnvelope(env Envelope) error {
	return status.Error(codes.Code(env.Code), env.Message)
}

// JSON writes err as an envelope response on c.
func JSON(c echo.Context, err error) error {
	httpStatus, env := ToEnvelope(err)
	return c.JSON(httpStatus, env)
}

func Code(err error) codes.Code {
	st, ok := status.FromError(err)
	if !ok {
		return codes.Internal
	}
	return st.Code()
}
