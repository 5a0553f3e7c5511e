package metrics

import (
	"strings"
	"time"

	statsd "github.com/smira/go-statsd"
	"go.uber.org/zap"
)

const DefaultPrefix = "statuswatcher."

type StatsdOptions struct {
	Addr     string
	Instance string // sent as the "instance" tag on every metric
	Prefix   string // defaults to DefaultPrefix; a trailing dot is added if missing
	// FlushInterval overrides the client's buffering delay when positive.
	FlushInterval time.Duration
	// Logger receives client send errors. Nil drops them.
	Logger *zap.Logger
}

// Statsd sends engine metrics over UDP with datadog-style tags.
type Statsd struct {
	client *statsd.Client
	prefix string
}

func NewStatsd(opts StatsdOptions) *Statsd {
	prefix := metricPrefix(opts.Prefix)
	options := []statsd.Option{
		statsd.MetricPrefix(prefix),
		statsd.TagStyle(statsd.TagFormatDatadog),
	}
	if opts.Instance != "" {
		options = append(options, statsd.DefaultTags(statsd.StringTag("instance", opts.Instance)))
	}
	if opts.FlushInterval > 0 {
		options = append(options, statsd.FlushInterval(opts.FlushInterval))
	}
	if opts.Logger != nil {
		options = append(options, statsd.Logger(zap.NewStdLog(opts.Logger.With(zap.String("component", "statsd")))))
	}
	return &Statsd{client: statsd.NewClient(opts.Addr, options...), prefix: prefix}
}

func metricPrefix(p string) string {
	if p == "" {
		return DefaultPrefix
	}
	if !strings.HasSuffix(p, ".") {
		p += "."
	}
	return p
}

// Prefix is the prefix applied to every metric name.
func (s *Statsd) Prefix() string { return s.prefix }

func (s *Statsd) Increment(metric string) {
	s.client.Incr(metric, 1)
}

func (s *Statsd) Duration(metric string, d time.Duration) {
	s.client.PrecisionTiming(metric, d)
}

func (s *Statsd) Gauge(metric string, value int) {
	s.client.Gauge(metric, int64(value))
}

// Close flushes buffered metrics and stops the sender.
func (s *Statsd) Close() error {
	return s.client.Close()
}
