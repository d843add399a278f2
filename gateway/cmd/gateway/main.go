package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	echo "github.com/labstack/echo/v4"

	"github.com/vyatkin0/micro-services/gateway/internal/config"
	"github.com/vyatkin0/micro-services/gateway/internal/httpserver"
	"github.com/vyatkin0/micro-services/gateway/internal/middleware"
	"github.com/vyatkin0/micro-services/gateway/internal/registry"
	"github.com/vyatkin0/micro-services/pkg/identityclient"
	"github.com/vyatkin0/micro-services/pkg/logging"
	mwlogging "github.com/vyatkin0/micro-services/pkg/middleware/logging"
	"github.com/vyatkin0/micro-services/pkg/ordersclient"
	"github.com/vyatkin0/micro-services/pkg/productsclient"
	"github.com/vyatkin0/micro-services/pkg/rpcclient"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", "gateway")

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	for _, m := range middleware.Common() {
		e.Use(m)
	}
	e.Use(mwlogging.RequestLogger(logger))

	reg := registry.Build(&registry.Clients{
		Identity: identityclient.New(rpcclient.New(cfg.IdentityURL)),
		Products: productsclient.New(rpcclient.New(cfg.ProductsURL)),
		Orders:   ordersclient.New(rpcclient.New(cfg.OrdersURL)),
	})

	httpserver.Register(e, &httpserver.Deps{
		RPC: &httpserver.RPCHTTP{Registry: reg},
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("echo shutdown: %v", err)
	}
}
