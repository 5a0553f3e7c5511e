package scheduler

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamed0406/statuswatcher/internal/metrics"
	"github.com/hamed0406/statuswatcher/internal/notify"
)

// runPrimary polls every idle target until ctx is cancelled.
func (e *Engine) runPrimary(ctx context.Context) {
	e.Logger.Info("primary_started")
	for {
		e.runOnce(ctx)
		if !sleep(ctx, e.cfg.PollInterval) {
			e.Logger.Info("primary_stopped")
			return
		}
	}
}

// runOnce is one primary iteration. Recoveries are drained before the check
// pass so a target handed back by a tracker is checked with fresh state.
func (e *Engine) runOnce(ctx context.Context) {
	e.drainRecoveries(ctx)
	e.checkPass(ctx)
	e.reportQueues()
}

func (e *Engine) drainRecoveries(ctx context.Context) {
	for {
		t, ok := e.recovery.TryPop()
		if !ok {
			return
		}
		e.members.Remove(t.Name)
		e.Backoff.Reset(t.Name)
		e.Metrics.Increment(metrics.IncidentsResolved)
		e.notify(ctx, notify.Event{Kind: notify.Recovered, Target: t, Interval: e.Backoff.Min()})
	}
}

func (e *Engine) checkPass(ctx context.Context) {
	ts, err := e.Targets.List(ctx)
	if err != nil {
		e.Logger.Warn("primary_list_error", zap.Error(err))
		return
	}

	for _, t := range ts {
		if ctx.Err() != nil {
			return
		}
		// owned by a tracker or waiting for one
		if e.members.Contains(t.Name) {
			continue
		}
		if !e.Backoff.ShouldCheck(t.Name) {
			continue
		}

		inc := e.checker.Check(ctx, t)
		if ctx.Err() != nil {
			return
		}

		if inc.Active() {
			if e.members.Add(t.Name) {
				e.Metrics.Increment(metrics.IncidentsDetected)
				e.notify(ctx, notify.Event{Kind: notify.Detected, Target: t, Incident: inc})
				e.downtime.Push(t)
			}
			continue
		}

		next := e.Backoff.Increase(t.Name)
		e.Logger.Debug("primary_checked",
			zap.String("target", t.Name),
			zap.Bool("incident", false),
			zap.Duration("next_interval", next),
		)
	}
}
