package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Loop runs a check cycle on a fixed interval inside the API process.
// Without it, cycles only happen when triggered over HTTP or the CLI.
type Loop struct {
	Logger   *zap.Logger
	Checker  *Checker
	Interval time.Duration
}

func NewLoop(logger *zap.Logger, c *Checker, interval time.Duration) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval < 0 {
		interval = 0
	}
	return &Loop{Logger: logger, Checker: c, Interval: interval}
}

// Run does an immediate cycle, then one per tick, until ctx is cancelled.
// A zero interval disables the loop.
func (l *Loop) Run(ctx context.Context) {
	if l.Interval == 0 {
		l.Logger.Info("check_loop_disabled")
		return
	}
	t := time.NewTicker(l.Interval)
	defer t.Stop()

	l.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			l.Logger.Info("check_loop_stopped")
			return
		case <-t.C:
			l.runOnce(ctx)
		}
	}
}

func (l *Loop) runOnce(ctx context.Context) {
	rep, err := l.Checker.RunCycle(ctx, 0, -1)
	if err != nil {
		l.Logger.Warn("check_loop_cycle_failed", zap.Error(err))
		return
	}
	l.Logger.Debug("check_loop_cycle_done", zap.String("summary", rep.Message()))
}
