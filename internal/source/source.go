// Package source maps a source kind to the adapter that fetches its status
// feed and the parser that turns the feed into a domain.Incident.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hamed0406/statuswatcher/internal/domain"
)

var ErrUnknownSource = errors.New("unknown source")

// Fetcher retrieves the raw feed for one endpoint. A nil result with a nil
// error means the feed had nothing to report. Implementations apply their own
// network deadline and inject any time-window parameters they need.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (any, error)
}

// Parser normalizes what the matching Fetcher returned. The zero Incident
// means no active incident.
type Parser interface {
	Parse(raw any) (domain.Incident, error)
}

// Source is the capability pair registered for one kind.
type Source struct {
	Fetcher Fetcher
	Parser  Parser
}

type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

func (r *Registry) Register(kind string, s Source) error {
	if kind == "" {
		return errors.New("source kind is empty")
	}
	if s.Fetcher == nil || s.Parser == nil {
		return fmt.Errorf("source %q: fetcher and parser are required", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.sources[kind]; dup {
		return fmt.Errorf("source %q already registered", kind)
	}
	r.sources[kind] = s
	return nil
}

func (r *Registry) Lookup(kind string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[kind]
	if !ok {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
	return s, nil
}

// Kinds lists the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sources))
	for k := range r.sources {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, endpoint string) (any, error)

func (f FetcherFunc) Fetch(ctx context.Context, endpoint string) (any, error) {
	return f(ctx, endpoint)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(raw any) (domain.Incident, error)

func (f ParserFunc) Parse(raw any) (domain.Incident, error) { return f(raw) }
