package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/keroxio/auth-service/internal/config"
	"github.com/keroxio/auth-service/internal/events"
	"github.com/keroxio/auth-service/internal/hash"
	"github.com/keroxio/auth-service/internal/httpserver"
	"github.com/keroxio/auth-service/internal/logging"
	"github.com/keroxio/auth-service/internal/middleware"
	"github.com/keroxio/auth-service/internal/repo"
	"github.com/keroxio/auth-service/internal/service"
	"github.com/keroxio/auth-service/internal/tokens"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	tokenSvc, err := tokens.NewService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		log.Fatalf("token service init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	userRepo := &repo.GormRepo{DB: db}

	authSvc := &service.AuthService{
		Repo:   userRepo,
		Tokens: tokenSvc,
		Hasher: hash.Hasher{Cost: cfg.BcryptCost},
		Events: producer,
	}
	resolver := &service.IdentityResolver{Tokens: tokenSvc, Users: userRepo}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: authSvc},
		Auth:        middleware.NewAuth(resolver),
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		if err := e.Start(cfg.ServerAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()
	logger.Info("server started", "addr", cfg.ServerAddr, "env", cfg.Env)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
}
