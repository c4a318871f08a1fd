package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guttosm/stockdash/internal/logger"
)

// Scheduler runs a job on a cron expression. Overlapping runs are skipped.
type Scheduler struct {
	cron *cron.Cron
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct{ l *zerolog.Logger }

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.l.Debug().Fields(kv).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.Error().Err(err).Fields(kv).Msg(msg)
}

// NewScheduler registers job under spec (standard 5-field syntax or descriptors
// such as "@daily"). ctx is handed to every run and should outlive the scheduler.
func NewScheduler(ctx context.Context, spec string, job func(ctx context.Context) error) (*Scheduler, error) {
	cl := cronLogger{l: logger.Component("scheduler")}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	if _, err := c.AddFunc(spec, func() {
		start := time.Now()
		if err := job(ctx); err != nil {
			cl.l.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("scheduled snapshot failed")
			return
		}
		cl.l.Info().Dur("elapsed", time.Since(start)).Msg("scheduled snapshot done")
	}); err != nil {
		return nil, fmt.Errorf("register snapshot job %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start starts the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Component("scheduler").Info().Msg("scheduler started")
}

// Stop stops scheduling and waits for a running job until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	logger.Component("scheduler").Info().Msg("scheduler stopped")
}

// Next reports the next planned run, zero if none.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
