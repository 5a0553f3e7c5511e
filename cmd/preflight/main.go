// cmd/preflight/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hamed0406/statuswatcher/internal/config"
	"github.com/hamed0406/statuswatcher/internal/probe"
	"github.com/hamed0406/statuswatcher/internal/source/builtin"
)

func main() {
	live := flag.Bool("live", false, "fetch every target once")
	flag.Parse()

	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.FromEnv()
	if err != nil {
		fail(err.Error())
	}
	ok(fmt.Sprintf("WORKERS=%d BACKOFF=%s..%s", cfg.Workers, cfg.BackoffMin, cfg.BackoffMax))

	reg, err := builtin.Registry(probe.NewHTTPGetter(cfg.FetchTimeout))
	if err != nil {
		fail(err.Error())
	}

	for _, t := range cfg.Targets {
		src, err := reg.Lookup(t.Kind())
		if err != nil {
			fail(fmt.Sprintf("target %s: no source %q (have %v)", t.Name, t.Kind(), reg.Kinds()))
		}
		if !*live {
			ok(fmt.Sprintf("target %s -> %s", t.Name, t.Kind()))
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+time.Second)
		raw, err := src.Fetcher.Fetch(ctx, t.Endpoint)
		cancel()
		if err != nil {
			warn(fmt.Sprintf("target %s: fetch failed: %v", t.Name, err))
			continue
		}
		if raw == nil {
			ok(fmt.Sprintf("target %s: no recent incidents", t.Name))
			continue
		}
		inc, err := src.Parser.Parse(raw)
		if err != nil {
			warn(fmt.Sprintf("target %s: parse failed: %v", t.Name, err))
			continue
		}
		if inc.Active() {
			warn(fmt.Sprintf("target %s: %s (%s)", t.Name, inc.Name, inc.Status))
		} else {
			ok(fmt.Sprintf("target %s: operational", t.Name))
		}
	}

	if cfg.StatusAddr == "" {
		warn("STATUS_ADDR empty; status API disabled.")
	} else {
		ok("STATUS_ADDR=" + cfg.StatusAddr)
	}
	if cfg.StatsdAddr == "" {
		warn("STATSD_ADDR empty; metrics disabled.")
	}

	ok("preflight passed")
}
