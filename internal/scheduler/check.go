package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statuswatcher/internal/domain"
	"github.com/hamed0406/statuswatcher/internal/metrics"
	"github.com/hamed0406/statuswatcher/internal/source"
)

// checker runs fetch and parse for one target. Whatever goes wrong inside,
// including a panic in adapter code, ends up as the empty Incident so the
// calling loop keeps going.
type checker struct {
	logger  *zap.Logger
	sources *source.Registry
	metrics metrics.Metrics
}

func (c *checker) Check(ctx context.Context, t domain.Target) (inc domain.Incident) {
	start := time.Now()
	c.metrics.Increment(metrics.ChecksTotal)
	defer func() {
		c.metrics.Duration(metrics.CheckDuration, time.Since(start))
		if r := recover(); r != nil {
			c.fail(t, "check_panic", fmt.Errorf("panic: %v", r))
			inc = domain.Incident{}
		}
	}()

	src, err := c.sources.Lookup(t.Kind())
	if err != nil {
		c.fail(t, "check_no_source", err)
		return domain.Incident{}
	}

	raw, err := src.Fetcher.Fetch(ctx, t.Endpoint)
	if err != nil {
		// transport failures look the same as a quiet target downstream
		if ctx.Err() == nil {
			c.fail(t, "check_fetch_failed", err)
		}
		return domain.Incident{}
	}
	if raw == nil {
		return domain.Incident{}
	}

	inc, err = src.Parser.Parse(raw)
	if err != nil {
		c.fail(t, "check_parse_failed", err)
		return domain.Incident{}
	}
	return inc
}

func (c *checker) fail(t domain.Target, msg string, err error) {
	c.metrics.Increment(metrics.ChecksFailed)
	c.logger.Warn(msg,
		zap.String("target", t.Name),
		zap.String("source", t.Kind()),
		zap.String("endpoint", t.Endpoint),
		zap.Error(err),
	)
}
