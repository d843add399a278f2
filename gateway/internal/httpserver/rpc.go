package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	echo "github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vyatkin0/micro-services/gateway/internal/registry"
	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/rpcstatus"
)

// Envelope is the generic call accepted on /rpc.
type Envelope struct {
	Service   string            `json:"service"`
	Interface string            `json:"interface"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	Message   json.RawMessage   `json:"message"`
}

type RPCHTTP struct {
	Registry *registry.Registry
}

func (h *RPCHTTP) Call(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "rpc_call")

	var env Envelope
	if err := c.Bind(&env); err != nil {
		l.Warn("call_rejected", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "Wrong message")
	}
	l = l.With("service", env.Service, "interface", env.Interface, "method", env.Method)

	handler, err := h.Registry.Resolve(env.Service, env.Interface, env.Method)
	if err != nil {
		l.Warn("resolve_failed", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, status.Convert(err).Message())
	}

	payload, err := h.Registry.DecodePayload(handler, env.Message)
	if err != nil {
		l.Warn("decode_failed", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, status.Convert(err).Message())
	}

	result, err := handler.Invoke(ctx, payload, registry.Metadata(env.Headers))
	if err != nil {
		if _, ok := status.FromError(err); !ok {
			err = status.Error(codes.Internal, fmt.Sprintf("Internal error. %v", err))
		}
		_, body := rpcstatus.ToEnvelope(err)
		l.Warn("call_failed", "status", 400, "code", body.Code, "error", err)
		return c.JSON(http.StatusBadRequest, body)
	}

	l.Info("call_succeeded")
	return c.JSON(http.StatusOK, result)
}
