// Package scheduler runs the periodic maintenance jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/config"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// BatchJob processes one batch and returns the number of items it handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) { return f(ctx) }

// JobSpec describes one periodic job.
type JobSpec struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Job      BatchJob
}

// MaintenanceJobs are the background jobs of the API server.
type MaintenanceJobs struct {
	RefreshTokens    BatchJob
	SyncBookings     BatchJob
	ExpireProposals  BatchJob
	CompleteSessions BatchJob
}

// SchedulerManager owns the gocron scheduler. Every job runs in singleton
// mode, so a slow run delays the next one instead of overlapping it.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterMaintenanceJobs registers token refresh (10m), booking sync (30m),
// proposal expiry (5m) and session completion (5m). Intervals set in cfg
// override the defaults. Nil jobs are skipped.
func (m *SchedulerManager) RegisterMaintenanceJobs(jobs MaintenanceJobs, cfg config.SchedulerConfig) error {
	specs := []JobSpec{
		{Name: "token-refresh", Interval: orDefault(cfg.TokenRefreshInterval, 10*time.Minute), Timeout: 5 * time.Minute, Job: jobs.RefreshTokens},
		{Name: "booking-sync", Interval: orDefault(cfg.BookingSyncInterval, 30*time.Minute), Timeout: 20 * time.Minute, Job: jobs.SyncBookings},
		{Name: "proposal-expiry", Interval: orDefault(cfg.ProposalExpiry, 5*time.Minute), Timeout: 2 * time.Minute, Job: jobs.ExpireProposals},
		{Name: "session-completion", Interval: orDefault(cfg.SessionCompletion, 5*time.Minute), Timeout: 2 * time.Minute, Job: jobs.CompleteSessions},
	}
	for _, spec := range specs {
		if spec.Job == nil {
			continue
		}
		if err := m.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Register adds a singleton job that first runs immediately.
func (m *SchedulerManager) Register(spec JobSpec) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(spec.Interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), spec.Timeout)
			defer cancel()
			m.run(ctx, spec)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("maintenance"),
		gocron.WithName(spec.Name),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered scheduled job", "job", spec.Name, "interval", spec.Interval)
	return nil
}

func (m *SchedulerManager) run(ctx context.Context, spec JobSpec) {
	startTime := biztime.NowUTC()

	count, err := spec.Job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("scheduled job failed",
			"job", spec.Name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("scheduled job processed items",
			"job", spec.Name,
			"count", count,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("scheduled job found nothing to do",
			"job", spec.Name,
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to finish and stops the scheduler.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
