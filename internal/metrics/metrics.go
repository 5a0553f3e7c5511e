package metrics

import "time"

// Metric names emitted by the scheduler.
const (
	ChecksTotal       = "checks.total"
	ChecksFailed      = "checks.failed"
	CheckDuration     = "checks.duration"
	IncidentsDetected = "incidents.detected"
	IncidentsOngoing  = "incidents.ongoing"
	IncidentsResolved = "incidents.recovered"
	TrackingActive    = "tracking.active"
	DowntimeQueueLen  = "queue.downtime"
)

type Metrics interface {
	Increment(string)
	Duration(string, time.Duration)
	Gauge(string, int)
}

// Nop discards everything. It is the default when no statsd address is set.
type Nop struct{}

func (Nop) Increment(string)               {}
func (Nop) Duration(string, time.Duration) {}
func (Nop) Gauge(string, int)              {}
