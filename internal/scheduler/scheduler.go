package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// MonthlySpec runs at 03:00 on the first day of each month.
const MonthlySpec = "0 3 1 * *"

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler owns the main loop: it runs the job on a cron schedule until ctx
// is cancelled. Runs never overlap; a run that overshoots its slot delays the
// next one instead of stacking.
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	job      Job
	runNow   bool
	logger   *slog.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// NewScheduler parses spec (standard five-field cron syntax or a descriptor
// like "@daily") and returns a scheduler for job. When runNow is set the job
// also runs once immediately on start.
func NewScheduler(spec string, job Job, runNow bool, logger *slog.Logger) (*Scheduler, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing cron spec %q: %w", spec, err)
	}
	return &Scheduler{
		spec:     spec,
		schedule: sched,
		job:      job,
		runNow:   runNow,
		logger:   logger,
		now:      time.Now,
		after:    time.After,
	}, nil
}

// Next returns the first activation strictly after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run starts the scheduling loop. It returns nil when ctx is cancelled
// (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "cron", s.spec, "run_now", s.runNow)

	if s.runNow {
		s.runOnce(ctx)
	}

	for {
		now := s.now()
		next := s.schedule.Next(now)
		s.logger.Info("next run scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-s.after(next.Sub(now)):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := s.now()
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled run failed", "error", err)
		return
	}
	s.logger.Info("scheduled run complete", "duration", s.now().Sub(start).Round(time.Millisecond))
}

// CronLine returns a crontab entry that runs the full clean and report cycle
// monthly from projectRoot, appending output to logs/monthly.log.
func CronLine(projectRoot, binary string) (string, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	if binary == "" {
		binary = "salarynorm"
	}
	logFile := filepath.Join(root, "logs", "monthly.log")
	return fmt.Sprintf("%s cd %s && %s all >> %s 2>&1", MonthlySpec, root, binary, logFile), nil
}
