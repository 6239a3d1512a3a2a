// Package scheduler runs recurring batch submissions from configuration on
// cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/common"
	"github.com/hammywammy/oslira-workers/internal/models"
	"github.com/hammywammy/oslira-workers/internal/services/runs"
)

// scheduleEntry tracks one registered schedule and its last execution.
type scheduleEntry struct {
	config    common.ScheduleConfig
	cronID    cron.EntryID
	lastRun   *time.Time
	lastError string
	isRunning bool
}

// Service submits configured batches on their cron schedules. Each schedule
// is serialized against itself: a tick is skipped when the previous run of
// the same schedule is still in flight.
type Service struct {
	runs    *runs.Service
	cron    *cron.Cron
	logger  arbor.ILogger
	mu      sync.Mutex
	entries map[string]*scheduleEntry
	running bool
}

// NewService creates a scheduler for the given schedules.
func NewService(runService *runs.Service, logger arbor.ILogger) *Service {
	return &Service{
		runs:    runService,
		cron:    cron.New(),
		logger:  logger,
		entries: make(map[string]*scheduleEntry),
	}
}

// Register adds one schedule. Must be called before Start.
func (s *Service) Register(config common.ScheduleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[config.Name]; exists {
		return fmt.Errorf("schedule %q already registered", config.Name)
	}

	entry := &scheduleEntry{config: config}
	cronID, err := s.cron.AddFunc(config.Cron, func() {
		s.runSchedule(entry)
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q for schedule %q: %w", config.Cron, config.Name, err)
	}
	entry.cronID = cronID
	s.entries[config.Name] = entry

	s.logger.Info().
		Str("schedule", config.Name).
		Str("cron", config.Cron).
		Int("handles", len(config.Handles)).
		Msg("Schedule registered")
	return nil
}

// Start begins executing registered schedules.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if len(s.entries) == 0 {
		return fmt.Errorf("no schedules registered")
	}

	s.cron.Start()
	s.running = true
	s.logger.Info().Int("schedules", len(s.entries)).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for in-flight runs to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Service) runSchedule(entry *scheduleEntry) {
	s.mu.Lock()
	if entry.isRunning {
		s.mu.Unlock()
		s.logger.Warn().
			Str("schedule", entry.config.Name).
			Msg("Previous run still in flight, skipping tick")
		return
	}
	entry.isRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		entry.isRunning = false
		s.mu.Unlock()
	}()

	started := time.Now()
	record, err := s.runs.Execute(context.Background(), runs.Request{
		AccountID: entry.config.AccountID,
		Platform:  entry.config.Platform,
		Depth:     models.AnalysisDepth(entry.config.Depth),
		Handles:   entry.config.Handles,
	})

	s.mu.Lock()
	entry.lastRun = &started
	if err != nil {
		entry.lastError = err.Error()
	} else {
		entry.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().
			Err(err).
			Str("schedule", entry.config.Name).
			Msg("Scheduled run failed")
		return
	}

	s.logger.Info().
		Str("schedule", entry.config.Name).
		Str("run_id", record.ID).
		Int("successful", record.Summary.Successful).
		Int("failed", record.Summary.Failed).
		Dur("duration", time.Since(started)).
		Msg("Scheduled run finished")
}
