package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statuswatcher/internal/backoff"
	"github.com/hamed0406/statuswatcher/internal/domain"
	"github.com/hamed0406/statuswatcher/internal/metrics"
	"github.com/hamed0406/statuswatcher/internal/notify"
	"github.com/hamed0406/statuswatcher/internal/queue"
	"github.com/hamed0406/statuswatcher/internal/repo"
	"github.com/hamed0406/statuswatcher/internal/source"
)

const (
	DefaultWorkers       = 3
	DefaultPollInterval  = 500 * time.Millisecond
	DefaultTrackInterval = 5 * time.Second
	DefaultQueueTimeout  = 2 * time.Second
)

type Config struct {
	Workers       int
	PollInterval  time.Duration // pause between primary passes
	TrackInterval time.Duration // pause between checks of an active incident
	QueueTimeout  time.Duration // how long a tracker waits on the downtime queue
}

func (c Config) withDefaults() Config {
	if c.Workers < 1 {
		c.Workers = DefaultWorkers
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.TrackInterval <= 0 {
		c.TrackInterval = DefaultTrackInterval
	}
	if c.QueueTimeout <= 0 {
		c.QueueTimeout = DefaultQueueTimeout
	}
	return c
}

// Engine runs one primary loop and a fixed pool of incident trackers.
//
// Targets move between the two tiers only through the downtime queue
// (primary -> trackers) and the recovery queue (trackers -> primary). The
// membership set records which targets the tracking tier currently owns.
type Engine struct {
	Logger   *zap.Logger
	Targets  repo.TargetStore
	Backoff  *backoff.Tracker
	Notifier notify.Notifier
	Metrics  metrics.Metrics

	cfg      Config
	checker  *checker
	members  *Membership
	downtime *queue.Queue[domain.Target]
	recovery *queue.Queue[domain.Target]

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEngine(
	logger *zap.Logger,
	ts repo.TargetStore,
	sources *source.Registry,
	bo *backoff.Tracker,
	cfg Config,
) *Engine {
	if bo == nil {
		bo = backoff.NewTracker(backoff.DefaultMin, backoff.DefaultMax)
	}
	e := &Engine{
		Logger:   logger,
		Targets:  ts,
		Backoff:  bo,
		Notifier: notify.NewLog(logger),
		Metrics:  metrics.Nop{},
		cfg:      cfg.withDefaults(),
		members:  NewMembership(),
		downtime: queue.New[domain.Target](),
		recovery: queue.New[domain.Target](),
	}
	e.checker = &checker{logger: logger, sources: sources, metrics: e.Metrics}
	return e
}

// SetMetrics swaps the metrics sink. Call before Start.
func (e *Engine) SetMetrics(m metrics.Metrics) {
	if m == nil {
		m = metrics.Nop{}
	}
	e.Metrics = m
	e.checker.metrics = m
}

func (e *Engine) Config() Config { return e.cfg }

// Start launches the primary loop and the trackers. They run until ctx is
// cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		return errors.New("engine already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.runPrimary(ctx)
	}()
	for i := 0; i < e.cfg.Workers; i++ {
		id := i + 1
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.runTracker(ctx, id)
		}()
	}

	e.Logger.Info("engine_started",
		zap.Int("workers", e.cfg.Workers),
		zap.Duration("poll_interval", e.cfg.PollInterval),
		zap.Duration("track_interval", e.cfg.TrackInterval),
	)
	return nil
}

// Stop cancels every loop and waits for them to exit. Targets still sitting
// in either queue are dropped.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel == nil {
		return
	}
	e.Logger.Info("engine_stopping")
	cancel()
	e.wg.Wait()

	abandoned := len(e.downtime.Drain()) + len(e.recovery.Drain())
	e.Logger.Info("engine_stopped",
		zap.Int("abandoned", abandoned),
		zap.Strings("tracking", e.members.Names()),
	)
}

// Run starts the engine and blocks until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	e.Stop()
	return nil
}

// TargetState is a point-in-time view of one target.
type TargetState struct {
	Target          domain.Target `json:"target"`
	Tracking        bool          `json:"tracking"`
	IntervalSeconds int           `json:"interval_seconds"`
	NextCheck       time.Time     `json:"next_check,omitempty"`
}

func (e *Engine) Snapshot(ctx context.Context) ([]TargetState, error) {
	ts, err := e.Targets.List(ctx)
	if err != nil {
		return nil, err
	}
	bo := e.Backoff.Snapshot()
	out := make([]TargetState, 0, len(ts))
	for _, t := range ts {
		st := TargetState{
			Target:          t,
			Tracking:        e.members.Contains(t.Name),
			IntervalSeconds: int(e.Backoff.Min() / time.Second),
		}
		if b, ok := bo[t.Name]; ok {
			st.IntervalSeconds = int(b.Interval / time.Second)
			st.NextCheck = b.NextCheck
		}
		out = append(out, st)
	}
	return out, nil
}

func (e *Engine) notify(ctx context.Context, ev notify.Event) {
	ev.At = time.Now().UTC()
	if err := e.Notifier.Notify(ctx, ev); err != nil {
		e.Logger.Warn("notify_failed",
			zap.String("target", ev.Target.Name),
			zap.String("kind", string(ev.Kind)),
			zap.Error(err),
		)
	}
}

func (e *Engine) reportQueues() {
	e.Metrics.Gauge(metrics.TrackingActive, e.members.Len())
	e.Metrics.Gauge(metrics.DowntimeQueueLen, e.downtime.Len())
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
