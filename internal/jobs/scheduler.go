// Package jobs runs the periodic background tasks of the worker.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// AlluStatusUpdate is the lock name of the Allu status history sync.
const AlluStatusUpdate = "allu-status-update"

type locker interface {
	DoIfUnlocked(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// Job is one named task. Only one instance of a job runs at a time across
// all workers.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

type Scheduler struct {
	cron  *cron.Cron
	locks locker
	log   *slog.Logger
	ctx   context.Context
}

// NewScheduler builds a scheduler with seconds-first cron expressions. Jobs
// receive ctx, so cancelling it stops running jobs.
func NewScheduler(ctx context.Context, locks locker, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		locks: locks,
		log:   log,
		ctx:   ctx,
	}
}

func (s *Scheduler) Add(job Job) error {
	if _, err := s.cron.AddFunc(job.Schedule, func() { s.run(job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name, err)
	}
	s.log.Info("job scheduled", "job", job.Name, "schedule", job.Schedule)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and returns a context that is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) run(job Job) {
	if s.ctx.Err() != nil {
		return
	}
	if err := s.locks.DoIfUnlocked(s.ctx, job.Name, job.Run); err != nil {
		s.log.Error("job lock failed", "job", job.Name, "error", err)
	}
}
