package schedulerimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/social-scheduler/internal/scheduler"
)

const jobName = "publish-due-posts"

func (s *SchedulerImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return scheduler.ErrAlreadyStarted
	}

	loc, err := time.LoadLocation(s.Config.Scheduler.Timezone)
	if err != nil {
		loc = time.UTC
		s.Logger.Warn("Failed to load scheduler timezone, using UTC", "timezone", s.Config.Scheduler.Timezone, "error", err)
	}

	sch, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)

	jobOpts := []gocron.JobOption{
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if s.Config.Scheduler.RunOnStart {
		jobOpts = append(jobOpts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err = sch.NewJob(
		gocron.CronJob(s.Config.Scheduler.Cron, false),
		gocron.NewTask(func() {
			s.tick(runCtx)
		}),
		jobOpts...,
	)
	if err != nil {
		cancel()
		_ = sch.Shutdown()
		return fmt.Errorf("failed to schedule due post publishing: %w", err)
	}

	sch.Start()
	s.scheduler = sch
	s.stop = cancel

	s.Logger.Info("Scheduler started", "cron", s.Config.Scheduler.Cron, "timezone", loc.String())
	return nil
}

func (s *SchedulerImpl) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return nil
	}

	s.Logger.Info("Stopping scheduler")
	s.stop()
	err := s.scheduler.Shutdown()
	s.scheduler = nil
	s.stop = nil
	if err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	return nil
}

func (s *SchedulerImpl) tick(ctx context.Context) {
	if ctx.Err() != nil {
		s.Logger.Info("Context cancelled, skipping scheduler tick")
		return
	}

	if _, err := s.RunOnce(ctx); err != nil {
		s.Logger.Error("Scheduler tick failed", "error", err)
	}
}
