package notify

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/statuswatcher/internal/domain"
)

type Kind string

const (
	Detected  Kind = "detected"
	Tracking  Kind = "tracking"
	Requeued  Kind = "requeued"
	Recovered Kind = "recovered"
)

// Event is one state transition of a target.
type Event struct {
	Kind     Kind
	Target   domain.Target
	Incident domain.Incident
	WorkerID int
	// Interval is the backoff interval after the transition, when known.
	Interval time.Duration
	At       time.Time
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Multi fans an event out to every notifier and combines their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Notify(ctx, ev))
	}
	return err
}
