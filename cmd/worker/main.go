package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/haitaton/hanke-service/config"
	"github.com/haitaton/hanke-service/internal/bootstrap"
	"github.com/haitaton/hanke-service/internal/jobs"
	"github.com/haitaton/hanke-service/internal/lock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(ctx, &cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer rdb.Close()

	services, err := bootstrap.NewServices(cfg, db, logger)
	if err != nil {
		log.Fatalf("services: %v", err)
	}
	defer services.Close()

	locks := lock.NewService(rdb, cfg.Jobs.LockTTL, logger.With("component", "lock"))
	scheduler := jobs.NewScheduler(ctx, locks, logger.With("component", "jobs"))
	if err := scheduler.Add(jobs.Job{
		Name:     jobs.AlluStatusUpdate,
		Schedule: cfg.Jobs.AlluStatusSchedule,
		Run:      services.Applications.HandleStatusUpdates,
	}); err != nil {
		log.Fatalf("%v", err)
	}

	scheduler.Start()
	logger.Info("worker started")
	<-ctx.Done()

	logger.Info("worker stopping")
	select {
	case <-scheduler.Stop().Done():
	case <-time.After(cfg.Server.ShutdownTimeout):
		logger.Warn("jobs still running at shutdown")
	}
}
