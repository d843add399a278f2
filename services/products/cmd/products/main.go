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
	"github.com/vyatkin0/micro-services/services/products/internal/config"
	"github.com/vyatkin0/micro-services/services/products/internal/httpserver"
	"github.com/vyatkin0/micro-services/services/products/internal/repo"
	"github.com/vyatkin0/micro-services/services/products/internal/search"
	"github.com/vyatkin0/micro-services/services/products/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", "products")

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

	productRepo := &repo.ProductRepo{DB: gormDB}
	if err := productRepo.Migrate(); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var index *search.Index
	if cfg.ESURL != "" {
		index, err = search.New(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			log.Fatalf("search init error: %v", err)
		}
		logger.Info("search index connected", "index", cfg.ESIndex)
	} else {
		logger.Info("no search backend configured, using database fallback")
	}

	httpserver.Register(e, &httpserver.Deps{
		Products: &httpserver.ProductsHTTP{
			Svc:      &service.ProductService{Repo: productRepo, Index: index},
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
