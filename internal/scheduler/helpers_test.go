package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statuswatcher/internal/backoff"
	"github.com/hamed0406/statuswatcher/internal/domain"
	"github.com/hamed0406/statuswatcher/internal/notify"
	"github.com/hamed0406/statuswatcher/internal/repo/memory"
	"github.com/hamed0406/statuswatcher/internal/source"
)

const fakeKind = "fake"

var degraded = domain.Incident{Name: "X", Status: "degraded"}

// script decides what the n-th check (1-based) of a target returns.
type script func(name string, n int) domain.Incident

// fakeSource serves scripted incidents. Test targets use their name as the
// endpoint so Fetch knows which target it is checking.
type fakeSource struct {
	mu          sync.Mutex
	script      script
	delay       time.Duration
	calls       map[string]int
	inflight    map[string]int
	maxInflight int
	beforeFetch func(name string)
	fetchErr    map[string]error
	panics      map[string]bool
}

func newFakeSource(s script) *fakeSource {
	return &fakeSource{
		script:   s,
		calls:    make(map[string]int),
		inflight: make(map[string]int),
		fetchErr: make(map[string]error),
		panics:   make(map[string]bool),
	}
}

func (f *fakeSource) Fetch(ctx context.Context, name string) (any, error) {
	if f.beforeFetch != nil {
		f.beforeFetch(name)
	}
	f.mu.Lock()
	f.calls[name]++
	n := f.calls[name]
	f.inflight[name]++
	if f.inflight[name] > f.maxInflight {
		f.maxInflight = f.inflight[name]
	}
	err := f.fetchErr[name]
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inflight[name]--
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	inc := f.script(name, n)
	return &inc, nil
}

func (f *fakeSource) Parse(raw any) (domain.Incident, error) {
	inc, ok := raw.(*domain.Incident)
	if !ok {
		return domain.Incident{}, errors.New("unexpected raw type")
	}
	f.mu.Lock()
	boom := f.panics[inc.Name]
	f.mu.Unlock()
	if boom {
		panic("parser exploded")
	}
	return *inc, nil
}

func (f *fakeSource) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeSource) MaxInflight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInflight
}

// recorder keeps every event in arrival order.
type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Notify(ctx context.Context, ev notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) Events() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) Count(kind notify.Kind, name string) int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Kind == kind && ev.Target.Name == name {
			n++
		}
	}
	return n
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 7, 6, 4, 10, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestEngine(t *testing.T, fs *fakeSource, bo *backoff.Tracker, cfg Config, names ...string) (*Engine, *recorder) {
	t.Helper()
	targets := make([]domain.Target, 0, len(names))
	for _, n := range names {
		targets = append(targets, domain.Target{Name: n, Endpoint: n, Source: fakeKind})
	}
	store, err := memory.New(targets...)
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	reg := source.NewRegistry()
	if err := reg.Register(fakeKind, source.Source{Fetcher: fs, Parser: fs}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if bo == nil {
		bo = backoff.NewTracker(backoff.DefaultMin, backoff.DefaultMax)
	}
	e := NewEngine(zap.NewNop(), store, reg, bo, cfg)
	rec := &recorder{}
	e.Notifier = rec
	return e, rec
}

func fastConfig(workers int) Config {
	return Config{
		Workers:       workers,
		PollInterval:  2 * time.Millisecond,
		TrackInterval: 5 * time.Millisecond,
		QueueTimeout:  20 * time.Millisecond,
	}
}

func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func healthy(string, int) domain.Incident { return domain.Incident{} }

func alwaysDown(string, int) domain.Incident { return degraded }
