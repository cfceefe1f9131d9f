package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"evidence-tracker/internal/config"
	"evidence-tracker/internal/event"
	"evidence-tracker/internal/handler"
	"evidence-tracker/internal/middleware"
	"evidence-tracker/internal/router"
	"evidence-tracker/internal/service"
	"evidence-tracker/internal/websocket"
)

type App struct {
	server *http.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, bus)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	evidenceService := service.NewEvidenceService(bus)

	if cfg.SeedDemoData {
		if err := authService.SeedDemoUsers(); err != nil {
			return nil, fmt.Errorf("failed to seed demo users: %w", err)
		}
		evidenceService.SeedDemoEvidence()
		slog.Info("demo data seeded", "users", authService.Count(), "evidence", evidenceService.Count())
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	evidenceHandler := handler.NewEvidenceHandler(evidenceService, cfg.MaxUploadSize)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:     authHandler,
		User:     userHandler,
		Evidence: evidenceHandler,
	}, hub, registry)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
