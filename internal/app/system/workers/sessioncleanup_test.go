package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/unionhub/internal/app/system/workers"
	"go.uber.org/zap"
)

type fakeCloser struct {
	threshold time.Duration
	calls     int
	n         int64
	err       error
}

func (f *fakeCloser) CloseInactive(_ context.Context, threshold time.Duration) (int64, error) {
	f.calls++
	f.threshold = threshold
	return f.n, f.err
}

func TestSessionCleanup(t *testing.T) {
	c := &fakeCloser{n: 3}
	workers.SessionCleanup(context.Background(), c, 10*time.Minute, time.Second, zap.NewNop())
	if c.calls != 1 || c.threshold != 10*time.Minute {
		t.Errorf("calls = %d threshold = %v", c.calls, c.threshold)
	}

	// Errors are logged, never propagated.
	c.err = errors.New("db down")
	workers.SessionCleanup(context.Background(), c, time.Minute, time.Second, zap.NewNop())
	if c.calls != 2 {
		t.Errorf("calls = %d, want 2", c.calls)
	}
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := workers.NewScheduler(zap.NewNop())
	if err := s.AddSessionCleanup("not a schedule", &fakeCloser{}, time.Minute, time.Second); err == nil {
		t.Error("expected error for invalid cron spec")
	}
	if err := s.AddSessionCleanup("@every 1m", &fakeCloser{}, time.Minute, time.Second); err != nil {
		t.Errorf("AddSessionCleanup: %v", err)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := workers.NewScheduler(zap.NewNop())
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
