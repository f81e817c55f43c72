// Package workers runs scheduled background jobs.
package workers

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InactiveCloser closes activity sessions idle for longer than threshold.
type InactiveCloser interface {
	CloseInactive(ctx context.Context, threshold time.Duration) (int64, error)
}

// Sweeper drops expired in-memory state, such as login throttling windows.
type Sweeper interface {
	Sweep() int
}

// Scheduler wraps a cron runner for the app's maintenance jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		log:  logger,
	}
}

// AddSessionCleanup schedules CloseInactive on spec, e.g. "@every 1m".
func (s *Scheduler) AddSessionCleanup(spec string, closer InactiveCloser, threshold, timeout time.Duration) error {
	_, err := s.cron.AddFunc(spec, func() {
		SessionCleanup(context.Background(), closer, threshold, timeout, s.log)
	})
	if err != nil {
		return err
	}
	s.log.Info("session cleanup scheduled",
		zap.String("schedule", spec),
		zap.Duration("inactive_after", threshold))
	return nil
}

// AddSweep schedules sw.Sweep on spec.
func (s *Scheduler) AddSweep(spec, name string, sw Sweeper) error {
	_, err := s.cron.AddFunc(spec, func() {
		if n := sw.Sweep(); n > 0 {
			s.log.Debug("swept expired entries", zap.String("job", name), zap.Int("count", n))
		}
	})
	return err
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts scheduling and waits for running jobs or ctx, whichever
// comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out; jobs still running")
	}
}

// SessionCleanup closes idle activity sessions once.
func SessionCleanup(ctx context.Context, closer InactiveCloser, threshold, timeout time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	count, err := closer.CloseInactive(ctx, threshold)
	if err != nil {
		logger.Error("failed to close inactive sessions", zap.Error(err))
		return
	}
	if count > 0 {
		logger.Info("closed inactive sessions",
			zap.Int64("count", count),
			zap.Duration("threshold", threshold))
	}
}
