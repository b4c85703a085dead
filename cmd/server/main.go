// @title Shop API
// @version 1.0
// @description Users and products CRUD API with bearer token auth.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/events"
	"github.com/Skotchmaster/shop_api/internal/httpserver"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/search"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if cfg.DBAutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
		logger.Info("schema migrated")
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers)
	if len(cfg.KafkaBrokers) > 0 {
		logger.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers)
	}

	r := repo.New(gdb)
	productSvc := &service.ProductService{Repo: r, Events: publisher}

	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(context.Background(), 5*time.Second)
		idx, err := search.NewESIndex(esCtx, search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		esCancel()
		if err != nil {
			logger.Warn("elasticsearch unavailable, searching the database instead", "error", err)
		} else {
			productSvc.Index = idx
		}
	}

	tokenSvc := tokens.NewService(cfg.JWTSecret)
	e := httpserver.New(&httpserver.Deps{
		UserHandler: &httpserver.UserHTTP{Svc: &service.UserService{
			Repo:   r,
			Tokens: tokenSvc,
			Events: publisher,
		}},
		ProductHandler: &httpserver.ProductHTTP{Svc: productSvc},
		Gate:           auth.NewGate(tokenSvc),
		DB:             gdb,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("close publisher", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("close db", "error", err)
	}

	logger.Info("server stopped")
}
