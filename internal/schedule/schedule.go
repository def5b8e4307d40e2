// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule triggers a job once per day at a local wall-clock time.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/pdiddy/paper-digest/internal/config"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// DefaultPollInterval is how often the trigger time is checked.
const DefaultPollInterval = 30 * time.Second

// Job is one scheduled unit of work. now is the tick that fired it.
type Job func(ctx context.Context, now time.Time) error

// Scheduler fires a Job at most once per calendar day, on the first tick at
// or after the trigger time.
type Scheduler struct {
	hour, minute int
	interval     time.Duration
	logger       *slog.Logger

	// now and newTicker are replaced in tests.
	now       func() time.Time
	newTicker func(time.Duration) (<-chan time.Time, func())

	lastFired string
}

// New creates a Scheduler from cfg.
func New(cfg types.ScheduleConfig, logger *slog.Logger) (*Scheduler, error) {
	hour, minute, err := config.ParseClock(cfg.At)
	if err != nil {
		return nil, err
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		hour:      hour,
		minute:    minute,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
		newTicker: realTicker,
	}, nil
}

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Run blocks, firing job daily, until ctx is cancelled. A trigger time that
// has already passed when Run starts counts as today's firing. Job errors
// are logged and the schedule continues.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	ticks, stop := s.newTicker(s.interval)
	defer stop()

	start := s.now()
	if !start.Before(s.trigger(start)) {
		s.lastFired = dayKey(start)
	}
	s.logger.Info("scheduler started", "next_run", s.NextRun(start))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case now := <-ticks:
			if !s.due(now) {
				continue
			}
			s.lastFired = dayKey(now)
			s.logger.Info("running scheduled job", "at", now.Format(time.DateTime))
			if err := job(ctx, now); err != nil {
				s.logger.Error("scheduled job failed", "error", err)
			}
			s.logger.Info("next scheduled run", "next_run", s.NextRun(now))
		}
	}
}

// NextRun returns the first trigger time strictly after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	t := s.trigger(now)
	if !t.After(now) || s.lastFired == dayKey(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func (s *Scheduler) due(now time.Time) bool {
	return s.lastFired != dayKey(now) && !now.Before(s.trigger(now))
}

func (s *Scheduler) trigger(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
