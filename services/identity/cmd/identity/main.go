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
	"github.com/vyatkin0/micro-services/services/identity/internal/config"
	"github.com/vyatkin0/micro-services/services/identity/internal/credstore"
	"github.com/vyatkin0/micro-services/services/identity/internal/httpserver"
	"github.com/vyatkin0/micro-services/services/identity/internal/repo"
	"github.com/vyatkin0/micro-services/services/identity/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", "identity")

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

	gormRepo := &repo.GormRepo{DB: gormDB}
	if err := gormRepo.Migrate(); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}
	if err := gormRepo.SeedRoles(context.Background()); err != nil {
		log.Fatalf("role seed error: %v", err)
	}

	deps := &service.Deps{
		Repo:  gormRepo,
		Creds: &credstore.Store{DB: gormDB, RequireConfirmedEmail: cfg.RequireConfirmedEmail},
		Keys:  cfg.Keychain(),
	}
	validate := validator.New()

	httpserver.Register(e, &httpserver.Deps{
		Accounts: &httpserver.AccountsHTTP{Svc: &service.AccountsService{Deps: deps}, Validate: validate},
		Manage:   &httpserver.ManageHTTP{Svc: &service.ManageService{Deps: deps}, Validate: validate},
		Roles:    &httpserver.RolesHTTP{Svc: &service.RolesService{Deps: deps}, Validate: validate},
		Users:    &httpserver.UsersHTTP{Svc: &service.UsersService{Deps: deps}, Validate: validate},
		Auth:     auth.New(cfg.Keychain()),
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
