package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	echo "github.com/labstack/echo/v4"

	"github.com/vyatkin0/micro-services/pkg/db"
	"github.com/vyatkin0/micro-services/pkg/logging"
	"github.com/vyatkin0/micro-services/pkg/middleware/auth"
	mwlogging "github.com/vyatkin0/micro-services/pkg/middleware/logging"
	"github.com/vyatkin0/micro-services/pkg/productsclient"
	"github.com/vyatkin0/micro-services/pkg/rpcclient"
	"github.com/vyatkin0/micro-services/services/orders/internal/config"
	"github.com/vyatkin0/micro-services/services/orders/internal/events"
	"github.com/vyatkin0/micro-services/services/orders/internal/httpserver"
	"github.com/vyatkin0/micro-services/services/orders/internal/repo"
	"github.com/vyatkin0/micro-services/services/orders/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", "orders")

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(mwlogging.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseDSN)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	orderRepo := &repo.OrderRepo{DB: gormDB}
	if err := orderRepo.Migrate(); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
		logger.Info("event producer connected", "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("no kafka brokers configured, order events disabled")
	}

	var products *productsclient.Client
	if cfg.ProductsURL != "" {
		products = productsclient.New(rpcclient.New(cfg.ProductsURL))
	}

	httpserver.Register(e, &httpserver.Deps{
		Orders: &httpserver.OrdersHTTP{
			Svc:      &service.OrderService{Repo: orderRepo, Events: producer, Products: products},
			Validate: validator.New(),
		},
		Auth: auth.New(cfg.Keychain()),
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
