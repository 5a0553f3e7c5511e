// Package openai reads the component-impacts feed behind status.openai.com.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/bytedance/sonic"

	"github.com/hamed0406/statuswatcher/internal/domain"
	"github.com/hamed0406/statuswatcher/internal/probe"
	"github.com/hamed0406/statuswatcher/internal/source"
)

const (
	Kind            = "openai"
	DefaultEndpoint = "https://status.openai.com/proxy/status.openai.com/component_impacts"
	DefaultWindow   = 10 * time.Minute

	timeLayout = "2006-01-02T15:04:05Z"
)

var ErrShape = errors.New("openai: unexpected payload")

type IncidentLink struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Permalink string `json:"permalink"`
}

type ComponentImpact struct {
	StatusPageIncidentID string `json:"status_page_incident_id"`
	ComponentID          string `json:"component_id"`
	Status               string `json:"status"`
	StartAt              string `json:"start_at"`
	EndAt                string `json:"end_at"`
}

// Payload is the decoded feed. Both lists are ordered oldest first.
type Payload struct {
	IncidentLinks    []IncidentLink    `json:"incident_links"`
	ComponentImpacts []ComponentImpact `json:"component_impacts"`
}

type Fetcher struct {
	Getter probe.Getter
	Window time.Duration
	now    func() time.Time
}

func NewFetcher(g probe.Getter) *Fetcher {
	return &Fetcher{Getter: g, Window: DefaultWindow, now: time.Now}
}

// Fetch asks for impacts inside [now-Window, now].
func (f *Fetcher) Fetch(ctx context.Context, endpoint string) (any, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	now := f.now().UTC()
	q := url.Values{}
	q.Set("start_at", now.Add(-f.Window).Format(timeLayout))
	q.Set("end_at", now.Format(timeLayout))

	resp, err := f.Getter.Get(ctx, endpoint, q)
	if err != nil {
		return nil, fmt.Errorf("openai fetch: %w", err)
	}
	if len(resp.Body) == 0 {
		return nil, nil
	}
	var p Payload
	if err := sonic.Unmarshal(resp.Body, &p); err != nil {
		return nil, fmt.Errorf("openai decode: %w", err)
	}
	return &p, nil
}

type Parser struct{}

// Parse reports the newest incident unless its newest component impact is
// resolved.
func (Parser) Parse(raw any) (domain.Incident, error) {
	p, ok := raw.(*Payload)
	if !ok {
		return domain.Incident{}, fmt.Errorf("%w: %T", ErrShape, raw)
	}
	if p == nil || len(p.IncidentLinks) == 0 || len(p.ComponentImpacts) == 0 {
		return domain.Incident{}, nil
	}
	link := p.IncidentLinks[len(p.IncidentLinks)-1]
	impact := p.ComponentImpacts[len(p.ComponentImpacts)-1]

	status := domain.IncidentStatus(impact.Status)
	if status.Terminal() {
		return domain.Incident{}, nil
	}
	return domain.Incident{Name: link.Name, Status: status}, nil
}

// New returns the capability pair for the registry.
func New(g probe.Getter) source.Source {
	return source.Source{Fetcher: NewFetcher(g), Parser: Parser{}}
}
