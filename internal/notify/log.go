package notify

import (
	"context"

	"github.com/hako/durafmt"
	"go.uber.org/zap"
)

// Log writes every transition as a structured log line.
type Log struct {
	Logger *zap.Logger
}

func NewLog(l *zap.Logger) *Log {
	return &Log{Logger: l}
}

func (n *Log) Notify(_ context.Context, ev Event) error {
	fields := []zap.Field{
		zap.String("target", ev.Target.Name),
		zap.String("source", ev.Target.Kind()),
		zap.Time("at", ev.At),
	}
	if ev.Incident.Name != "" || ev.Incident.Status != "" {
		fields = append(fields,
			zap.String("product", ev.Incident.Name),
			zap.String("status", string(ev.Incident.Status)),
		)
	}
	if ev.WorkerID > 0 {
		fields = append(fields, zap.Int("worker", ev.WorkerID))
	}
	if ev.Interval > 0 {
		fields = append(fields, zap.String("backoff", durafmt.Parse(ev.Interval).String()))
	}

	switch ev.Kind {
	case Detected:
		n.Logger.Warn("incident_detected", fields...)
	case Tracking:
		n.Logger.Info("incident_tracking", fields...)
	case Requeued:
		n.Logger.Warn("incident_requeued", fields...)
	case Recovered:
		n.Logger.Info("incident_recovered", fields...)
	default:
		n.Logger.Info("incident_event", append(fields, zap.String("kind", string(ev.Kind)))...)
	}
	return nil
}
