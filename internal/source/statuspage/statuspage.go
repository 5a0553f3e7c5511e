// Package statuspage reads the Atlassian Statuspage v2 incidents feed
// (/api/v2/incidents/unresolved.json) that most hosted status pages expose.
package statuspage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/hamed0406/statuswatcher/internal/domain"
	"github.com/hamed0406/statuswatcher/internal/probe"
	"github.com/hamed0406/statuswatcher/internal/source"
)

const Kind = "statuspage"

var ErrShape = errors.New("statuspage: unexpected payload")

type Component struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type Incident struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Status     string      `json:"status"`
	Impact     string      `json:"impact"`
	Shortlink  string      `json:"shortlink"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Components []Component `json:"components"`
}

type Payload struct {
	Incidents []Incident `json:"incidents"`
}

type Fetcher struct {
	Getter probe.Getter
}

func (f *Fetcher) Fetch(ctx context.Context, endpoint string) (any, error) {
	if endpoint == "" {
		return nil, errors.New("statuspage: endpoint is required")
	}
	resp, err := f.Getter.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("statuspage fetch: %w", err)
	}
	if len(resp.Body) == 0 {
		return nil, nil
	}
	var p Payload
	if err := sonic.Unmarshal(resp.Body, &p); err != nil {
		return nil, fmt.Errorf("statuspage decode: %w", err)
	}
	return &p, nil
}

type Parser struct{}

// Parse picks the most recently updated incident. The reported status is the
// worst affected component status when components are listed, otherwise the
// incident status itself.
func (Parser) Parse(raw any) (domain.Incident, error) {
	p, ok := raw.(*Payload)
	if !ok {
		return domain.Incident{}, fmt.Errorf("%w: %T", ErrShape, raw)
	}
	if p == nil || len(p.Incidents) == 0 {
		return domain.Incident{}, nil
	}
	latest := p.Incidents[0]
	for _, inc := range p.Incidents[1:] {
		if inc.UpdatedAt.After(latest.UpdatedAt) {
			latest = inc
		}
	}
	status := domain.IncidentStatus(latest.Status)
	// statuspage closes incidents as resolved, then optionally postmortem
	if status.Terminal() || status == domain.StatusPostmortem {
		return domain.Incident{}, nil
	}
	if worst := worstComponent(latest.Components); worst != "" {
		status = worst
	}
	return domain.Incident{Name: latest.Name, Status: status}, nil
}

var componentRank = map[domain.IncidentStatus]int{
	"operational":              0,
	"under_maintenance":        1,
	domain.StatusDegraded:      2,
	domain.StatusPartialOutage: 3,
	domain.StatusMajorOutage:   4,
}

func worstComponent(cs []Component) domain.IncidentStatus {
	var worst domain.IncidentStatus
	rank := 0
	for _, c := range cs {
		s := domain.IncidentStatus(c.Status)
		if r := componentRank[s]; r > rank {
			worst, rank = s, r
		}
	}
	return worst
}

func New(g probe.Getter) source.Source {
	return source.Source{Fetcher: &Fetcher{Getter: g}, Parser: Parser{}}
}
