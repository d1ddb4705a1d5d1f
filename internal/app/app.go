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

	"dealer-admin-console/internal/backend"
	"dealer-admin-console/internal/config"
	"dealer-admin-console/internal/console"
	"dealer-admin-console/internal/export"
	"dealer-admin-console/internal/handler"
	"dealer-admin-console/internal/middleware"
	"dealer-admin-console/internal/router"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := backend.NewClient(cfg.BackendBaseURL, cfg.SessionCookie, cfg.BackendTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend client: %w", err)
	}
	slog.Info("backend client ready", "base_url", cfg.BackendBaseURL)

	manager := console.NewManager(client, cfg.PageSize, cfg.AlertQueueSize, cfg.AlertTTL, cfg.SessionIdleTTL)

	sessionMiddleware := middleware.NewSession(cfg.SessionCookie)
	listingHandler := handler.NewListingHandler(manager, export.ExcelEncoder{}, cfg.ExportMaxRows)
	lookupHandler := handler.NewLookupHandler(manager)
	formHandler := handler.NewFormHandler(manager)
	alertHandler := handler.NewAlertHandler(manager)

	appRouter := router.New(cfg, sessionMiddleware, listingHandler, lookupHandler, formHandler, alertHandler)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go manager.StartCleanup(cleanupCtx, time.Minute)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			cleanupCancel,
		},
	}, nil
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

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
