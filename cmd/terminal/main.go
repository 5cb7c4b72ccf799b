package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/icevibe/pos-terminal/api/routes"
	authsvc "github.com/icevibe/pos-terminal/internal/auth"
	"github.com/icevibe/pos-terminal/internal/catalog"
	"github.com/icevibe/pos-terminal/internal/order"
	salessvc "github.com/icevibe/pos-terminal/internal/sales"
	"github.com/icevibe/pos-terminal/internal/tables"
	"github.com/icevibe/pos-terminal/pkg/auth/session"
	"github.com/icevibe/pos-terminal/pkg/backend"
	"github.com/icevibe/pos-terminal/pkg/config"
	"github.com/icevibe/pos-terminal/pkg/logger"
	"github.com/icevibe/pos-terminal/pkg/metrics"
	"github.com/icevibe/pos-terminal/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "terminal"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "terminal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	backendClient, err := backend.NewClient(cfg.Backend, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	posMetrics := metrics.NewPOSMetrics(prometheus.DefaultRegisterer)

	catalogService := catalog.NewService(backendClient, cfg.Catalog.RefreshInterval, logg, posMetrics)
	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()
	go catalogService.Run(pollCtx)

	deps := routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Redis:       redisClient,
		Sessions:    sessionManager,
		AuthService: authsvc.NewService(backendClient, sessionManager, cfg.JWT, logg),
		Catalog:     catalogService,
		Registry:    order.NewRegistry(),
		Sales:       salessvc.NewService(backendClient, logg, posMetrics),
		Board:       tables.NewBoard(),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting terminal server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "terminal server stopped unexpectedly", err)
		os.Exit(1)
	}
}
