package scheduler

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamed0406/statuswatcher/internal/domain"
	"github.com/hamed0406/statuswatcher/internal/metrics"
	"github.com/hamed0406/statuswatcher/internal/notify"
)

// runTracker takes one target at a time off the downtime queue and follows it
// until it resolves. The queue timeout doubles as the point where the worker
// notices cancellation.
func (e *Engine) runTracker(ctx context.Context, id int) {
	e.Logger.Info("tracker_started", zap.Int("worker", id))
	for {
		if ctx.Err() != nil {
			e.Logger.Info("tracker_stopped", zap.Int("worker", id))
			return
		}
		t, ok := e.downtime.Pop(ctx, e.cfg.QueueTimeout)
		if !ok {
			continue
		}
		e.track(ctx, id, t)
	}
}

// track polls t every TrackInterval. It returns once t has been handed back to
// the primary loop, put back on the downtime queue, or ctx is done.
func (e *Engine) track(ctx context.Context, id int, t domain.Target) {
	e.Logger.Info("tracker_monitoring", zap.Int("worker", id), zap.String("target", t.Name))
	for {
		inc := e.checker.Check(ctx, t)
		if ctx.Err() != nil {
			return
		}

		if !inc.Active() {
			e.recovery.Push(t)
			e.Logger.Debug("tracker_released", zap.Int("worker", id), zap.String("target", t.Name))
			return
		}

		next := e.Backoff.Increase(t.Name)
		e.Metrics.Increment(metrics.IncidentsOngoing)
		e.notify(ctx, notify.Event{
			Kind:     notify.Tracking,
			Target:   t,
			Incident: inc,
			WorkerID: id,
			Interval: next,
		})

		// Membership should still hold t. If it does not, reclaim it and
		// hand the target to the queue so it keeps a single owner.
		if e.members.Add(t.Name) {
			e.notify(ctx, notify.Event{Kind: notify.Requeued, Target: t, Incident: inc, WorkerID: id})
			e.downtime.Push(t)
			return
		}

		if !sleep(ctx, e.cfg.TrackInterval) {
			return
		}
	}
}
