package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haitaton/hanke-service/config"
	"github.com/haitaton/hanke-service/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)
	logger := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, &cfg.Database, bootstrap.DBOptions{Migrate: true})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	services, err := bootstrap.NewServices(cfg, db, logger)
	if err != nil {
		log.Fatalf("services: %v", err)
	}
	defer services.Close()

	if err := services.Content.EnsureBucket(ctx); err != nil {
		logger.Warn("attachment bucket unavailable", "error", err)
	}
	if cfg.Search.URL != "" {
		go reindex(ctx, services, logger)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "hanke-service",
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DB:             db,
		Services:       services,
		Log:            logger,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("hanke-service listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// reindex pushes every public hanke to the search index.
func reindex(ctx context.Context, services *bootstrap.Services, logger *slog.Logger) {
	hankkeet, err := services.Hankkeet.ListPublic(ctx)
	if err != nil {
		logger.Warn("search reindex skipped", "error", err)
		return
	}
	if err := services.Search.Reindex(hankkeet); err != nil {
		logger.Warn("search reindex failed", "error", err)
		return
	}
	logger.Info("search reindexed", "count", len(hankkeet))
}
