package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml"
	"github.com/vrischmann/envconfig"
	"go.uber.org/multierr"

	"github.com/hamed0406/statuswatcher/internal/domain"
)

const DefaultOpenAIEndpoint = "https://status.openai.com/proxy/status.openai.com/component_impacts"

// env is the raw environment. vrischmann/envconfig fills every field it sees,
// so resolved values live on Config instead.
type env struct {
	// TARGETS is "name=endpoint[@source];name=endpoint[@source]".
	Targets     string `envconfig:"TARGETS,optional"`
	TargetsFile string `envconfig:"TARGETS_FILE,optional"`

	Workers       int           `envconfig:"WORKERS,default=3"`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL,default=500ms"`
	TrackInterval time.Duration `envconfig:"TRACK_INTERVAL,default=5s"`
	QueueTimeout  time.Duration `envconfig:"QUEUE_TIMEOUT,default=2s"`
	BackoffMin    time.Duration `envconfig:"BACKOFF_MIN,default=60s"`
	BackoffMax    time.Duration `envconfig:"BACKOFF_MAX,default=600s"`
	FetchTimeout  time.Duration `envconfig:"FETCH_TIMEOUT,default=5s"`

	LogLevel   string `envconfig:"LOG_LEVEL,default=info"`
	LogDir     string `envconfig:"LOG_DIR,optional"`
	StatsdAddr string `envconfig:"STATSD_ADDR,optional"`
	StatusAddr string `envconfig:"STATUS_ADDR,optional"`
	Instance   string `envconfig:"INSTANCE,default=local"`
}

type Config struct {
	Targets []domain.Target

	Workers       int
	PollInterval  time.Duration
	TrackInterval time.Duration
	QueueTimeout  time.Duration
	BackoffMin    time.Duration
	BackoffMax    time.Duration
	FetchTimeout  time.Duration

	LogLevel   string
	LogDir     string // empty keeps logs on stdout only
	StatsdAddr string // e.g. 127.0.0.1:8125, empty disables metrics
	StatusAddr string // e.g. 127.0.0.1:8080, empty disables the status API
	Instance   string // statsd instance tag
}

// FromEnv reads .env (when present) and the process environment, then resolves
// the target list. With no targets configured it monitors the OpenAI status page.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Println("warn loading .env file:", err)
	}

	var raw env
	if err := envconfig.Init(&raw); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	cfg := Config{
		Workers:       raw.Workers,
		PollInterval:  raw.PollInterval,
		TrackInterval: raw.TrackInterval,
		QueueTimeout:  raw.QueueTimeout,
		BackoffMin:    raw.BackoffMin,
		BackoffMax:    raw.BackoffMax,
		FetchTimeout:  raw.FetchTimeout,
		LogLevel:      raw.LogLevel,
		LogDir:        raw.LogDir,
		StatsdAddr:    raw.StatsdAddr,
		StatusAddr:    raw.StatusAddr,
		Instance:      raw.Instance,
	}

	if raw.TargetsFile != "" {
		ts, err := LoadTargetsFile(raw.TargetsFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Targets = append(cfg.Targets, ts...)
	}
	if raw.Targets != "" {
		ts, err := ParseTargets(raw.Targets)
		if err != nil {
			return Config{}, err
		}
		cfg.Targets = append(cfg.Targets, ts...)
	}
	if len(cfg.Targets) == 0 {
		cfg.Targets = []domain.Target{{Name: "openai", Endpoint: DefaultOpenAIEndpoint}}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var err error
	if c.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("WORKERS must be >= 1, got %d", c.Workers))
	}
	if c.BackoffMin <= 0 {
		err = multierr.Append(err, errors.New("BACKOFF_MIN must be positive"))
	}
	if c.BackoffMax < c.BackoffMin {
		err = multierr.Append(err, fmt.Errorf("BACKOFF_MAX (%s) is below BACKOFF_MIN (%s)", c.BackoffMax, c.BackoffMin))
	}
	for name, d := range map[string]time.Duration{
		"POLL_INTERVAL":  c.PollInterval,
		"TRACK_INTERVAL": c.TrackInterval,
		"QUEUE_TIMEOUT":  c.QueueTimeout,
		"FETCH_TIMEOUT":  c.FetchTimeout,
	} {
		if d <= 0 {
			err = multierr.Append(err, fmt.Errorf("%s must be positive", name))
		}
	}
	seen := make(map[string]bool, len(c.Targets))
	for _, t := range c.Targets {
		if t.Name == "" {
			err = multierr.Append(err, fmt.Errorf("target with endpoint %q has no name", t.Endpoint))
			continue
		}
		if seen[t.Name] {
			err = multierr.Append(err, fmt.Errorf("duplicate target %q", t.Name))
		}
		seen[t.Name] = true
	}
	return err
}

// ParseTargets reads "name=endpoint[@source]" entries separated by ';'.
func ParseTargets(s string) ([]domain.Target, error) {
	var out []domain.Target
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, rest, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("bad target %q: want name=endpoint[@source]", part)
		}
		t := domain.Target{Name: strings.TrimSpace(name)}
		endpoint := rest
		if i := strings.LastIndex(rest, "@"); i >= 0 && !strings.Contains(rest[i:], "/") {
			endpoint, t.Source = rest[:i], strings.TrimSpace(rest[i+1:])
		}
		t.Endpoint = strings.TrimSpace(endpoint)
		out = append(out, t)
	}
	return out, nil
}

type targetsFile struct {
	Targets []domain.Target `toml:"target"`
}

// LoadTargetsFile reads [[target]] tables from a TOML file.
func LoadTargetsFile(path string) ([]domain.Target, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}
	var f targetsFile
	if err := toml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse targets file %s: %w", path, err)
	}
	return f.Targets, nil
}
