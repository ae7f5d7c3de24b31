// Package scheduler runs periodic background jobs with cron.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// MinSweepInterval is the shortest accepted cutoff sweep interval
const MinSweepInterval = 5

// Job is a unit of scheduled work. ctx carries the job's timeout.
type Job func(ctx context.Context)

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler whose cron expressions are read in loc
func NewScheduler(loc *time.Location, logger *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(loc)),
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// Schedule registers job under a cron expression. Panics inside the job are
// recovered and logged.
func (s *Scheduler) Schedule(name, spec string, timeout time.Duration, job Job) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return 0, fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				s.logger.WithField("job", name).Errorf("Scheduled job panicked: %v", r)
			}
		}()
		job(ctx)
	}

	entryID, err := s.cron.AddFunc(spec, jobFunc)
	if err != nil {
		return 0, fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{"job": name, "spec": spec}).Info("Scheduled job")

	return entryID, nil
}

// ScheduleCutoffSweep runs the sweeper every intervalSeconds
func (s *Scheduler) ScheduleCutoffSweep(intervalSeconds int, sweeper *CutoffSweeper) error {
	if intervalSeconds < MinSweepInterval {
		intervalSeconds = MinSweepInterval
	}

	_, err := s.Schedule("cutoff-sweep", fmt.Sprintf("@every %ds", intervalSeconds),
		time.Duration(intervalSeconds-1)*time.Second,
		func(context.Context) { sweeper.Sweep() })
	return err
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

// Stop waits for running jobs to finish, up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler did not stop within %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
