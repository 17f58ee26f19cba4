// Package scheduler runs recurring selection cycles.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bet-advisor/internal/config"
)

// CycleRunner executes one selection cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// Scheduler triggers selection cycles on a fixed interval, a cron
// expression, or both.
type Scheduler struct {
	cron         *cron.Cron
	runner       CycleRunner
	logger       *logrus.Logger
	cycleTimeout time.Duration
	mu           sync.RWMutex
	isRunning    bool
	jobIDs       []cron.EntryID
}

// NewScheduler creates a scheduler for the given cycle runner.
func NewScheduler(runner CycleRunner, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		runner:       runner,
		logger:       logger,
		cycleTimeout: 5 * time.Minute,
		jobIDs:       make([]cron.EntryID, 0),
	}
}

// Configure schedules the cycles described by the scheduler config. At
// least one of the interval and the cron expression must be set.
func (s *Scheduler) Configure(cfg config.SchedulerConfig) error {
	if cfg.CycleIntervalSeconds > 0 {
		if err := s.ScheduleInterval(cfg.CycleIntervalSeconds); err != nil {
			return err
		}
	}
	if cfg.CronExpression != "" {
		if err := s.ScheduleCron(cfg.CronExpression); err != nil {
			return err
		}
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("scheduler enabled but no interval or cron expression configured")
	}
	return nil
}

// ScheduleInterval schedules a cycle every intervalSeconds seconds.
func (s *Scheduler) ScheduleInterval(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if intervalSeconds < 30 {
		intervalSeconds = 30
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), s.runCycle)
	if err != nil {
		return fmt.Errorf("failed to add interval job: %w", err)
	}
	s.jobIDs = append(s.jobIDs, entryID)

	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled selection cycle interval")
	return nil
}

// ScheduleCron schedules cycles with a cron expression.
func (s *Scheduler) ScheduleCron(expression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(expression, s.runCycle)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	s.jobIDs = append(s.jobIDs, entryID)

	s.logger.WithField("cron", expression).Info("Scheduled selection cycle cron")
	return nil
}

func (s *Scheduler) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cycleTimeout)
	defer cancel()

	if err := s.runner.RunCycle(ctx); err != nil {
		s.logger.WithError(err).Error("Scheduled selection cycle failed")
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running cycle to
// finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled cycle.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
