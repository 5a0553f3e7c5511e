package statuspage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hamed0406/statuswatcher/internal/domain"
	"github.com/hamed0406/statuswatcher/internal/probe"
)

const unresolvedFeed = `{
  "page": {"id": "kctbh9vrtdwd", "name": "GitHub"},
  "incidents": [
    {
      "id": "a1", "name": "Degraded Actions", "status": "investigating", "impact": "minor",
      "created_at": "2025-07-06T04:00:00Z", "updated_at": "2025-07-06T04:05:00Z",
      "components": [{"name": "Actions", "status": "degraded_performance"}]
    },
    {
      "id": "b2", "name": "Git operations failing", "status": "identified", "impact": "major",
      "created_at": "2025-07-06T04:01:00Z", "updated_at": "2025-07-06T04:09:00Z",
      "components": [
        {"name": "Git Operations", "status": "major_outage"},
        {"name": "API Requests", "status": "partial_outage"}
      ]
    }
  ]
}`

func TestStatuspage_FetchAndParse(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(unresolvedFeed))
	}))
	defer s.Close()

	src := New(probe.NewHTTPGetter(time.Second))
	raw, err := src.Fetcher.Fetch(context.Background(), s.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	got, err := src.Parser.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := domain.Incident{Name: "Git operations failing", Status: "major_outage"}
	if got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestParser_NoIncidents(t *testing.T) {
	got, err := Parser{}.Parse(&Payload{})
	if err != nil || got.Active() {
		t.Fatalf("want empty, got %+v / %v", got, err)
	}
}

func TestParser_TerminalStatus(t *testing.T) {
	raw := &Payload{Incidents: []Incident{{Name: "done", Status: "resolved"}}}
	got, err := Parser{}.Parse(raw)
	if err != nil || got.Active() {
		t.Fatalf("want empty for resolved incident, got %+v / %v", got, err)
	}
}

func TestParser_PostmortemIsClosed(t *testing.T) {
	raw := &Payload{Incidents: []Incident{{
		Name:       "writeup",
		Status:     "postmortem",
		Components: []Component{{Name: "API", Status: "major_outage"}},
	}}}
	got, err := Parser{}.Parse(raw)
	if err != nil || got.Active() {
		t.Fatalf("want empty for postmortem incident, got %+v / %v", got, err)
	}
}

func TestParser_FallsBackToIncidentStatus(t *testing.T) {
	raw := &Payload{Incidents: []Incident{{Name: "slow", Status: "monitoring"}}}
	got, _ := Parser{}.Parse(raw)
	if got.Status != "monitoring" || !got.Active() {
		t.Fatalf("unexpected incident %+v", got)
	}
}

func TestParser_RejectsForeignShape(t *testing.T) {
	if _, err := (Parser{}).Parse(42); !errors.Is(err, ErrShape) {
		t.Fatalf("want ErrShape, got %v", err)
	}
}

func TestFetcher_RequiresEndpoint(t *testing.T) {
	f := &Fetcher{Getter: probe.NewHTTPGetter(time.Second)}
	if _, err := f.Fetch(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}
